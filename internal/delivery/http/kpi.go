package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/delivery/http/utils"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
)

type Kpi struct {
	kpiUseCase  usecase.Kpi
	authManager utils.Auth
}

func NewKpi(kpiUseCase usecase.Kpi, authManager utils.Auth) *Kpi {
	return &Kpi{
		kpiUseCase:  kpiUseCase,
		authManager: authManager,
	}
}

func (k *Kpi) Configure(server *echo.Group) {
	server.GET("", k.GetRules)
	server.PUT("", k.SetRules)
	server.POST("/recalculate", k.Recalculate)
}

func (k *Kpi) GetRules(c echo.Context) error {
	if _, err := k.authManager.CheckAuthFromContext(c); err != nil {
		return unauthorized(c)
	}

	var request entity.GetKpiRulesRequest
	if err := utils.ReadQuery(c, &request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат project_id или creator_id",
		})
	}

	kpi, err := k.kpiUseCase.GetRules(c.Request().Context(), &request)
	if err != nil {
		c.Logger().Errorf("Ошибка при получении правил KPI: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"kpi": kpi,
	})
}

func (k *Kpi) SetRules(c echo.Context) error {
	session, err := utils.RequireAdmin(k.authManager, c)
	switch {
	case errors.Is(err, utils.ErrForbidden):
		return forbidden(c)
	case err != nil:
		return unauthorized(c)
	}

	var request entity.SetKpiRulesRequest
	if err := utils.ReadJSON(c, &request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат правил KPI",
		})
	}
	request.UserID = session.UserID

	kpi, err := k.kpiUseCase.SetRules(c.Request().Context(), &request)
	switch {
	case errors.Is(err, usecase.ErrInvalidKpiRule):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверное правило KPI: ставка и цель не могут быть отрицательными, единица ставки 1 или 1000",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при сохранении правил KPI: %v", err)
		return internalError(c)
	}
	c.Logger().Infof("Пользователь %d обновил KPI проекта %d для креатора %d", session.UserID, request.ProjectID, request.CreatorID)
	return c.JSON(http.StatusOK, echo.Map{
		"kpi": kpi,
	})
}

func (k *Kpi) Recalculate(c echo.Context) error {
	if ok, err := requireAdmin(k.authManager, c); !ok {
		return err
	}

	var request entity.RecalculateRequest
	if err := utils.ReadJSON(c, &request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	if err := k.kpiUseCase.RecalculateAssignment(c.Request().Context(), request.ProjectID, request.CreatorID); err != nil {
		c.Logger().Errorf("Ошибка при пересчёте бонусов: %v", err)
		return internalError(c)
	}
	return c.NoContent(http.StatusNoContent)
}
