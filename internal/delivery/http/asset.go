package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/delivery/http/utils"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
)

const (
	defaultStaleAfter = 6 * time.Hour
	defaultSyncLimit  = 50
)

type Asset struct {
	assetUseCase usecase.Asset
	authManager  utils.Auth
}

func NewAsset(assetUseCase usecase.Asset, authManager utils.Auth) *Asset {
	return &Asset{
		assetUseCase: assetUseCase,
		authManager:  authManager,
	}
}

func (a *Asset) Configure(server *echo.Group) {
	server.POST("", a.Submit)
	server.POST("/sync", a.SyncStale)
	server.GET("/:id", a.Get)
	server.POST("/:id/sync", a.Sync)
	server.PUT("/:id/metrics", a.SetManualMetrics)
}

func (a *Asset) Submit(c echo.Context) error {
	if _, err := a.authManager.CheckAuthFromContext(c); err != nil {
		return unauthorized(c)
	}

	var request entity.SubmitAssetRequest
	if err := utils.ReadJSON(c, &request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	asset, err := a.assetUseCase.Submit(c.Request().Context(), &request)
	switch {
	case errors.Is(err, usecase.ErrInvalidURL):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Некорректная ссылка на ролик",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при добавлении ролика: %v", err)
		return internalError(c)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"asset": asset,
	})
}

func (a *Asset) Get(c echo.Context) error {
	if _, err := a.authManager.CheckAuthFromContext(c); err != nil {
		return unauthorized(c)
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badID(c)
	}

	asset, err := a.assetUseCase.Get(c.Request().Context(), id)
	switch {
	case errors.Is(err, usecase.ErrAssetNotFound):
		return assetNotFound(c)
	case err != nil:
		c.Logger().Errorf("Ошибка при получении ролика: %v", err)
		return internalError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"asset": asset,
	})
}

func (a *Asset) Sync(c echo.Context) error {
	if ok, err := requireAdmin(a.authManager, c); !ok {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badID(c)
	}

	asset, err := a.assetUseCase.Sync(c.Request().Context(), id)
	switch {
	case errors.Is(err, usecase.ErrAssetNotFound):
		return assetNotFound(c)
	case errors.Is(err, usecase.ErrMetricsUnavailable):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": "Не удалось получить метрики, введите вручную",
			"asset": asset,
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при синхронизации ролика: %v", err)
		return internalError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"asset": asset,
	})
}

func (a *Asset) SetManualMetrics(c echo.Context) error {
	if ok, err := requireAdmin(a.authManager, c); !ok {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badID(c)
	}

	var request entity.ManualMetricsRequest
	if err := utils.ReadJSON(c, &request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.AssetID = id

	asset, err := a.assetUseCase.SetManualMetrics(c.Request().Context(), &request)
	switch {
	case errors.Is(err, usecase.ErrAssetNotFound):
		return assetNotFound(c)
	case err != nil:
		c.Logger().Errorf("Ошибка при ручном вводе метрик: %v", err)
		return internalError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"asset": asset,
	})
}

func (a *Asset) SyncStale(c echo.Context) error {
	if ok, err := requireAdmin(a.authManager, c); !ok {
		return err
	}

	var request entity.SyncStaleRequest
	if c.Request().ContentLength != 0 {
		if err := utils.ReadJSON(c, &request); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "Неверный формат запроса",
			})
		}
	}
	staleAfter := defaultStaleAfter
	if request.StaleAfter != "" {
		parsed, err := time.ParseDuration(request.StaleAfter)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "Неверный формат stale_after",
			})
		}
		staleAfter = parsed
	}
	limit := request.Limit
	if limit == 0 {
		limit = defaultSyncLimit
	}

	summary, err := a.assetUseCase.SyncStale(c.Request().Context(), staleAfter, limit)
	if err != nil {
		c.Logger().Errorf("Ошибка пакетной синхронизации: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"summary": summary,
	})
}

func assetNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Ролик не найден",
	})
}
