package utils

import (
	"encoding/json"

	"github.com/labstack/echo/v4"
)

// ReadJSON декодирует тело запроса и проверяет его валидатором сервера, если он задан
func ReadJSON(c echo.Context, v any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(v)
}
