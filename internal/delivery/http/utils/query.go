package utils

import "github.com/labstack/echo/v4"

// ReadQuery заполняет структуру из query-параметров по тегам query и проверяет её
func ReadQuery(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, v); err != nil {
		return err
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(v)
}
