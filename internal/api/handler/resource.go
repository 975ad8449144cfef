package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/api/metrics"
	"github.com/printmanage/console/internal/core/confirm"
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/ports"
	"github.com/printmanage/console/internal/core/service"
)

// StoreBinder returns the store authenticated by a session.
type StoreBinder interface {
	For(sess ports.Session) ports.RemoteStore
}

// DeleteTarget is the payload of a pending delete confirmation.
type DeleteTarget struct {
	Resource string
	ID       int64
}

// Confirmations holds the pending deletes of every session.
type Confirmations = confirm.Registry[DeleteTarget]

// Resource describes a collection the API lists with in-memory search,
// filters and pagination.
type Resource[T domain.Entity] struct {
	// Name is the singular used in prompts, logs and metrics.
	Name       string
	Collection func(ports.RemoteStore) ports.Collection[T]
	Config     func() listview.Config[T]
	SetID      func(*T, int64)
	Label      func(T) string
	// Prepare runs after validation; it may reject or adjust the record.
	Prepare func(item *T, creating bool) error
}

type confirmationResponse struct {
	ConfirmationID string `json:"confirmation_id"`
	Message        string `json:"message"`
}

type listResponse[T any] struct {
	listview.View[T]
	Search         string            `json:"search"`
	Filters        map[string]string `json:"filters"`
	PerPageOptions []int             `json:"per_page_options"`
}

// ResourceHandler serves the CRUD routes of one resource.
type ResourceHandler[T domain.Entity] struct {
	res      Resource[T]
	stores   StoreBinder
	confirms *Confirmations
	filters  []string
	log      zerolog.Logger
}

func NewResourceHandler[T domain.Entity](res Resource[T], stores StoreBinder, confirms *Confirmations, log zerolog.Logger) *ResourceHandler[T] {
	cfg := res.Config()
	keys := make([]string, 0, len(cfg.Filters))
	for _, f := range cfg.Filters {
		keys = append(keys, f.Key)
	}
	return &ResourceHandler[T]{
		res:      res,
		stores:   stores,
		confirms: confirms,
		filters:  keys,
		log:      log.With().Str("resource", res.Name).Logger(),
	}
}

// Mount registers the five CRUD routes under path.
func (h *ResourceHandler[T]) Mount(g *echo.Group, path string, m ...echo.MiddlewareFunc) {
	g.GET(path, h.List, m...)
	g.POST(path, h.Create, m...)
	g.GET(path+"/:id", h.Get, m...)
	g.PUT(path+"/:id", h.Update, m...)
	g.DELETE(path+"/:id", h.Delete, m...)
}

func (h *ResourceHandler[T]) collection(c echo.Context) (ports.Collection[T], error) {
	sess, _, err := ctxSession(c)
	if err != nil {
		return nil, err
	}
	return h.res.Collection(h.stores.For(sess)), nil
}

// List handles GET /v1/{resource}.
//
// @Summary      List a collection
// @Description  Loads the whole collection, then applies search, filters
// @Description  (company, department, status, ...) and pagination.
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true   "companies, departments, printer-models, printers, materiel or users"
// @Param        search    query     string  false  "Case-insensitive search"
// @Param        page      query     int     false  "Page, clamped to the last page"
// @Param        per_page  query     int     false  "5, 10, 25 or 50"
// @Success      200       {object}  map[string]any
// @Failure      400       {object}  errorBody
// @Failure      401       {object}  errorBody
// @Failure      502       {object}  errorBody
// @Router       /v1/{resource} [get]
func (h *ResourceHandler[T]) List(c echo.Context) error {
	coll, err := h.collection(c)
	if err != nil {
		return err
	}
	items, err := coll.List(c.Request().Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("list failed")
		return err
	}
	metrics.ListViewItems.WithLabelValues(h.res.Name).Observe(float64(len(items)))

	ctrl := listview.New(h.res.Config())
	ctrl.Load(items)
	if err := applyQuery(c, ctrl, h.filters); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse[T]{
		View:           ctrl.View(),
		Search:         ctrl.Search(),
		Filters:        ctrl.Filters(),
		PerPageOptions: ctrl.PerPageOptions(),
	})
}

// applyQuery replays the query string on ctrl. Filters are applied in
// declaration order so a parent never resets a child set in the same
// request.
func applyQuery[T any](c echo.Context, ctrl *listview.Controller[T], filters []string) error {
	for _, key := range filters {
		if v := c.QueryParam(key); v != "" {
			if err := ctrl.SetFilter(key, v); err != nil {
				return err
			}
		}
	}
	ctrl.SetSearch(c.QueryParam("search"))
	perPage, err := queryInt(c, "per_page")
	if err != nil {
		return err
	}
	if perPage > 0 {
		if err := ctrl.SetPerPage(perPage); err != nil {
			return err
		}
	}
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	if page > 0 {
		ctrl.SetPage(page)
	}
	return nil
}

// Get handles GET /v1/{resource}/{id}.
//
// @Summary      Get a record
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true  "Collection name"
// @Param        id        path      int     true  "Record id"
// @Success      200       {object}  map[string]any
// @Failure      404       {object}  errorBody
// @Router       /v1/{resource}/{id} [get]
func (h *ResourceHandler[T]) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	coll, err := h.collection(c)
	if err != nil {
		return err
	}
	item, err := coll.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /v1/{resource}.
//
// @Summary      Create a record
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true  "Collection name"
// @Success      201       {object}  map[string]any
// @Failure      422       {object}  errorBody
// @Router       /v1/{resource} [post]
func (h *ResourceHandler[T]) Create(c echo.Context) error {
	item, err := h.bind(c, 0)
	if err != nil {
		return err
	}
	coll, err := h.collection(c)
	if err != nil {
		return err
	}
	saved, err := coll.Create(c.Request().Context(), item)
	if err != nil {
		return err
	}
	h.log.Info().Int64("id", saved.EntityID()).Msg("created")
	return c.JSON(http.StatusCreated, saved)
}

// Update handles PUT /v1/{resource}/{id}.
//
// @Summary      Update a record
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true  "Collection name"
// @Param        id        path      int     true  "Record id"
// @Success      200       {object}  map[string]any
// @Failure      404       {object}  errorBody
// @Failure      422       {object}  errorBody
// @Router       /v1/{resource}/{id} [put]
func (h *ResourceHandler[T]) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := h.bind(c, id)
	if err != nil {
		return err
	}
	coll, err := h.collection(c)
	if err != nil {
		return err
	}
	saved, err := coll.Update(c.Request().Context(), id, item)
	if err != nil {
		return err
	}
	h.log.Info().Int64("id", id).Msg("updated")
	return c.JSON(http.StatusOK, saved)
}

func (h *ResourceHandler[T]) bind(c echo.Context, id int64) (T, error) {
	var item T
	if err := c.Bind(&item); err != nil {
		return item, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	h.res.SetID(&item, id)
	if err := c.Validate(item); err != nil {
		return item, err
	}
	if h.res.Prepare != nil {
		if err := h.res.Prepare(&item, id == 0); err != nil {
			return item, err
		}
	}
	return item, nil
}

// Delete handles DELETE /v1/{resource}/{id}. Nothing is deleted yet: the
// response carries a confirmation to POST to /v1/confirmations/{id}.
//
// @Summary      Request the deletion of a record
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path      string  true  "Collection name"
// @Param        id        path      int     true  "Record id"
// @Success      202       {object}  confirmationResponse
// @Failure      404       {object}  errorBody
// @Router       /v1/{resource}/{id} [delete]
func (h *ResourceHandler[T]) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	_, sid, err := ctxSession(c)
	if err != nil {
		return err
	}
	coll, err := h.collection(c)
	if err != nil {
		return err
	}
	item, err := coll.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	msg := service.DeletePrompt(h.res.Name, h.res.Label(item))
	target := DeleteTarget{Resource: h.res.Name, ID: id}
	cid := h.confirms.Ask(sid, msg, target, func(ctx context.Context, t DeleteTarget) error {
		err := coll.Delete(ctx, t.ID)
		observeConfirmed(t.Resource, err)
		if err != nil {
			return err
		}
		h.log.Info().Int64("id", t.ID).Msg("deleted")
		return nil
	})
	metrics.ConfirmationsTotal.WithLabelValues(h.res.Name, "requested").Inc()
	metrics.ConfirmationsPending.Set(float64(h.confirms.Len()))

	return c.JSON(http.StatusAccepted, confirmationResponse{ConfirmationID: cid, Message: msg})
}

func observeConfirmed(resource string, err error) {
	result := "confirmed"
	if err != nil {
		result = "failed"
	}
	metrics.ConfirmationsTotal.WithLabelValues(resource, result).Inc()
}
