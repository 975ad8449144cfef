package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/service"
)

// AnalyticsHandler serves the dashboard.
type AnalyticsHandler struct {
	stores StoreBinder
	log    zerolog.Logger
}

func NewAnalyticsHandler(stores StoreBinder, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{stores: stores, log: log}
}

func (h *AnalyticsHandler) dashboard(c echo.Context) (*service.Dashboard, error) {
	sess, _, err := ctxSession(c)
	if err != nil {
		return nil, err
	}
	return service.NewDashboard(h.stores.For(sess).Analytics(), h.log), nil
}

// Dashboard handles GET /v1/analytics/dashboard.
//
// @Summary      Dashboard widgets
// @Description  Widgets that failed to load are empty and listed in errors.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.DashboardData
// @Router       /v1/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	d, err := h.dashboard(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.Load(c.Request().Context()))
}

// SearchRequest handles GET /v1/analytics/requests/{number}.
//
// @Summary      Find a printer by intervention request number
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      string  true  "Request number"
// @Success      200     {object}  domain.RequestSearchResult
// @Failure      404     {object}  errorBody
// @Router       /v1/analytics/requests/{number} [get]
func (h *AnalyticsHandler) SearchRequest(c echo.Context) error {
	d, err := h.dashboard(c)
	if err != nil {
		return err
	}
	res, msg, err := d.SearchRequest(c.Request().Context(), c.Param("number"))
	if err != nil {
		return err
	}
	if res == nil {
		return c.JSON(http.StatusNotFound, errorBody{Error: msg})
	}
	return c.JSON(http.StatusOK, res)
}

type interventionsResponse struct {
	Data []domain.Intervention `json:"data"`
}

// Interventions handles GET /v1/analytics/interventions.
//
// @Summary      Interventions of a printer, company, department or all
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        scope  query     string  false  "all, printer, company or department"
// @Param        id     query     int     false  "Id of the scoped record"
// @Success      200    {object}  interventionsResponse
// @Failure      400    {object}  errorBody
// @Router       /v1/analytics/interventions [get]
func (h *AnalyticsHandler) Interventions(c echo.Context) error {
	scope := c.QueryParam("scope")
	var id int64
	if raw := c.QueryParam("id"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
		}
		id = n
	} else if scope != "" && scope != service.ScopeAll {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required for scope "+scope)
	}
	d, err := h.dashboard(c)
	if err != nil {
		return err
	}
	items, err := d.Interventions(c.Request().Context(), scope, id)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.Intervention{}
	}
	return c.JSON(http.StatusOK, interventionsResponse{Data: items})
}

// Trends handles GET /v1/analytics/trends.
//
// @Summary      Intervention trends
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.TrendsData
// @Router       /v1/analytics/trends [get]
func (h *AnalyticsHandler) Trends(c echo.Context) error {
	d, err := h.dashboard(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.Trends(c.Request().Context()))
}
