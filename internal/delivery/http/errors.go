package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/delivery/http/utils"
)

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error": "Unauthorized",
	})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{
		"error": "Для этой операции требуются права администратора",
	})
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error": "Неверный формат id",
	})
}

func internalError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": "Произошла непредвиденная ошибка",
	})
}

// requireAdmin пишет ответ 401 или 403 сам; false означает, что обработчик должен вернуть err как есть
func requireAdmin(auth utils.Auth, c echo.Context) (bool, error) {
	_, err := utils.RequireAdmin(auth, c)
	switch {
	case errors.Is(err, utils.ErrForbidden):
		return false, forbidden(c)
	case err != nil:
		return false, unauthorized(c)
	}
	return true, nil
}
