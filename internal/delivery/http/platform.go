package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

// Platform подсказывает форме подачи ролика, какая площадка у ссылки
type Platform struct{}

func NewPlatform() *Platform {
	return &Platform{}
}

func (p *Platform) Configure(server *echo.Group) {
	server.GET("", p.Detect)
}

func (p *Platform) Detect(c echo.Context) error {
	rawURL := strings.TrimSpace(c.QueryParam("url"))
	if rawURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Параметр url обязателен",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"platform": entity.DetectPlatform(rawURL),
	})
}
