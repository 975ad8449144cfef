package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/api/metrics"
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/service"
)

// BrandHandler serves brands, which the store searches and paginates.
type BrandHandler struct {
	stores   StoreBinder
	confirms *Confirmations
	cfg      listview.PagedConfig
	log      zerolog.Logger
}

func NewBrandHandler(stores StoreBinder, confirms *Confirmations, cfg listview.PagedConfig, log zerolog.Logger) *BrandHandler {
	return &BrandHandler{stores: stores, confirms: confirms, cfg: cfg, log: log.With().Str("resource", "brand").Logger()}
}

func (h *BrandHandler) page(c echo.Context) (*service.BrandPage, error) {
	sess, _, err := ctxSession(c)
	if err != nil {
		return nil, err
	}
	return service.NewBrandPage(c.Request().Context(), h.stores.For(sess).Brands(), h.cfg, h.log), nil
}

// List handles GET /v1/brands.
//
// @Summary      List brands
// @Description  Searched and paginated by the store.
// @Tags         brands
// @Produce      json
// @Security     BearerAuth
// @Param        search_term  query     string  false  "Search term"
// @Param        page         query     int     false  "Page"
// @Param        per_page     query     int     false  "5, 10, 25 or 50"
// @Success      200          {object}  domain.PageResult[domain.Brand]
// @Failure      400          {object}  errorBody
// @Failure      502          {object}  errorBody
// @Router       /v1/brands [get]
func (h *BrandHandler) List(c echo.Context) error {
	p, err := h.page(c)
	if err != nil {
		return err
	}
	defer p.Close()

	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	perPage, err := queryInt(c, "per_page")
	if err != nil {
		return err
	}
	term := c.QueryParam("search_term")
	if term == "" {
		term = c.QueryParam("search")
	}

	st, err := p.Query(c.Request().Context(), domain.PageQuery{Page: page, PerPage: perPage, SearchTerm: term})
	if err != nil {
		return err
	}
	metrics.ListViewItems.WithLabelValues("brand").Observe(float64(len(st.Result.Data)))
	return c.JSON(http.StatusOK, st.Result)
}

// Get handles GET /v1/brands/{id}.
//
// @Summary      Get a brand
// @Tags         brands
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Brand id"
// @Success      200  {object}  domain.Brand
// @Failure      404  {object}  errorBody
// @Router       /v1/brands/{id} [get]
func (h *BrandHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.page(c)
	if err != nil {
		return err
	}
	defer p.Close()
	brand, err := p.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, brand)
}

// Save handles POST /v1/brands and PUT /v1/brands/{id}.
//
// @Summary      Create or update a brand
// @Tags         brands
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Brand  true  "Brand"
// @Success      200   {object}  domain.Brand
// @Success      201   {object}  domain.Brand
// @Failure      422   {object}  errorBody
// @Router       /v1/brands [post]
// @Router       /v1/brands/{id} [put]
func (h *BrandHandler) Save(c echo.Context) error {
	var (
		id  int64
		err error
	)
	if c.Param("id") != "" {
		if id, err = pathID(c); err != nil {
			return err
		}
	}
	var brand domain.Brand
	if err := c.Bind(&brand); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	brand.ID = id
	if err := c.Validate(brand); err != nil {
		return err
	}

	p, err := h.page(c)
	if err != nil {
		return err
	}
	defer p.Close()
	saved, err := p.Write(c.Request().Context(), brand)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	return c.JSON(status, saved)
}

// Delete handles DELETE /v1/brands/{id}.
//
// @Summary      Request the deletion of a brand
// @Tags         brands
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Brand id"
// @Success      202  {object}  confirmationResponse
// @Failure      404  {object}  errorBody
// @Router       /v1/brands/{id} [delete]
func (h *BrandHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	sess, sid, err := ctxSession(c)
	if err != nil {
		return err
	}
	p, err := h.page(c)
	if err != nil {
		return err
	}
	defer p.Close()
	brand, err := p.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	msg := service.DeletePrompt("brand", brand.Name)
	brands := h.stores.For(sess).Brands()
	cid := h.confirms.Ask(sid, msg, DeleteTarget{Resource: "brand", ID: id}, func(ctx context.Context, t DeleteTarget) error {
		err := brands.Delete(ctx, t.ID)
		observeConfirmed(t.Resource, err)
		return err
	})
	metrics.ConfirmationsTotal.WithLabelValues("brand", "requested").Inc()
	metrics.ConfirmationsPending.Set(float64(h.confirms.Len()))
	return c.JSON(http.StatusAccepted, confirmationResponse{ConfirmationID: cid, Message: msg})
}
