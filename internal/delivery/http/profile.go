package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/delivery/http/utils"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
)

type Profile struct {
	followersUseCase usecase.Followers
	authManager      utils.Auth
}

func NewProfile(followersUseCase usecase.Followers, authManager utils.Auth) *Profile {
	return &Profile{
		followersUseCase: followersUseCase,
		authManager:      authManager,
	}
}

func (p *Profile) Configure(server *echo.Group) {
	server.POST("", p.Add)
	server.POST("/:id/refresh", p.Refresh)
}

func (p *Profile) Add(c echo.Context) error {
	if _, err := p.authManager.CheckAuthFromContext(c); err != nil {
		return unauthorized(c)
	}

	var request entity.AddProfileRequest
	if err := utils.ReadJSON(c, &request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	profile, err := p.followersUseCase.AddProfile(c.Request().Context(), &request)
	switch {
	case errors.Is(err, usecase.ErrInvalidURL):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Некорректная ссылка на профиль",
		})
	case errors.Is(err, usecase.ErrProfileExists):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Профиль уже добавлен",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при добавлении профиля: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"profile": profile,
	})
}

func (p *Profile) Refresh(c echo.Context) error {
	if ok, err := requireAdmin(p.authManager, c); !ok {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badID(c)
	}

	profile, err := p.followersUseCase.RefreshProfile(c.Request().Context(), id)
	switch {
	case errors.Is(err, usecase.ErrProfileNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Профиль не найден",
		})
	case errors.Is(err, usecase.ErrFollowersNotFound):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":   "Не удалось получить число подписчиков",
			"profile": profile,
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при обновлении профиля: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"profile": profile,
	})
}
