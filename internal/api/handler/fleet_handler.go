package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/api/metrics"
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/ports"
	"github.com/printmanage/console/internal/core/service"
)

// FleetHandler serves the cascading selector options, the movement log
// and printer relocation.
type FleetHandler struct {
	stores StoreBinder
	log    zerolog.Logger
}

func NewFleetHandler(stores StoreBinder, log zerolog.Logger) *FleetHandler {
	return &FleetHandler{stores: stores, log: log}
}

type optionsResponse[T any] struct {
	Data   []T               `json:"data"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (h *FleetHandler) store(c echo.Context) (ports.RemoteStore, error) {
	sess, _, err := ctxSession(c)
	if err != nil {
		return nil, err
	}
	return h.stores.For(sess), nil
}

// DepartmentOptions handles GET /v1/options/departments.
//
// @Summary      Departments selectable under a company
// @Tags         options
// @Produce      json
// @Security     BearerAuth
// @Param        company_id  query     string  false  "Company id or \"all\""
// @Success      200         {object}  map[string]any
// @Router       /v1/options/departments [get]
func (h *FleetHandler) DepartmentOptions(c echo.Context) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}
	data := service.NewFleet(store, h.log).Load(c.Request().Context())
	return c.JSON(http.StatusOK, optionsResponse[domain.Department]{
		Data:   data.DepartmentOptions(parentParam(c, "company_id")),
		Errors: data.Errors,
	})
}

// PrinterOptions handles GET /v1/options/printers.
//
// @Summary      Printers selectable under a department
// @Tags         options
// @Produce      json
// @Security     BearerAuth
// @Param        department_id  query     string  false  "Department id or \"all\""
// @Success      200            {object}  map[string]any
// @Router       /v1/options/printers [get]
func (h *FleetHandler) PrinterOptions(c echo.Context) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}
	data := service.NewFleet(store, h.log).Load(c.Request().Context())
	return c.JSON(http.StatusOK, optionsResponse[domain.Printer]{
		Data:   data.PrinterOptions(parentParam(c, "department_id")),
		Errors: data.Errors,
	})
}

func parentParam(c echo.Context, key string) string {
	if v := c.QueryParam(key); v != "" {
		return v
	}
	return listview.All
}

// Movements handles GET /v1/printer-movements.
//
// @Summary      Printer movement log
// @Description  Search covers notes and printer names; filters cascade
// @Description  company -> department -> printer.
// @Tags         printers
// @Produce      json
// @Security     BearerAuth
// @Param        search      query     string  false  "Search term"
// @Param        company     query     string  false  "Company id"
// @Param        department  query     string  false  "Department id"
// @Param        printer     query     string  false  "Printer id"
// @Param        page        query     int     false  "Page"
// @Param        per_page    query     int     false  "Page size"
// @Success      200         {object}  map[string]any
// @Router       /v1/printer-movements [get]
func (h *FleetHandler) Movements(c echo.Context) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	fleet := service.NewFleet(store, h.log).Load(ctx)
	page := service.NewReadOnlyPage("printer movement", store.PrinterMovements(), service.MovementConfig(fleet.Directory()), h.log)
	if err := page.Load(ctx); err != nil {
		return err
	}
	ctrl := page.Controller()
	metrics.ListViewItems.WithLabelValues("printer movement").Observe(float64(len(ctrl.Items())))
	if err := applyQuery(c, ctrl, []string{service.FilterCompany, service.FilterDepartment, service.FilterPrinter}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse[domain.PrinterMovement]{
		View:           ctrl.View(),
		Search:         ctrl.Search(),
		Filters:        ctrl.Filters(),
		PerPageOptions: ctrl.PerPageOptions(),
	})
}

// Move handles PUT /v1/printers/{id}/move.
//
// @Summary      Move a printer to another department
// @Tags         printers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                     true  "Printer id"
// @Param        body  body      ports.MovePrinterInput  true  "Target department"
// @Success      200   {object}  domain.PrinterMovement
// @Failure      404   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Router       /v1/printers/{id}/move [put]
func (h *FleetHandler) Move(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in ports.MovePrinterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	store, err := h.store(c)
	if err != nil {
		return err
	}
	mv, err := service.NewMover(store.Printers(), nil, h.log).MoveByID(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	metrics.PrinterMovesTotal.Inc()
	return c.JSON(http.StatusOK, mv)
}
