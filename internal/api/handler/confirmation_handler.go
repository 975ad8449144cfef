package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/api/metrics"
)

// errorBody documents the error envelope rendered by the API.
type errorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ConfirmationHandler answers the prompts issued by delete requests.
type ConfirmationHandler struct {
	confirms *Confirmations
	log      zerolog.Logger
}

func NewConfirmationHandler(confirms *Confirmations, log zerolog.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{confirms: confirms, log: log}
}

// Confirm handles POST /v1/confirmations/{id}.
//
// @Summary      Confirm a pending delete
// @Description  Runs the delete. The confirmation is consumed even when the
// @Description  delete fails.
// @Tags         confirmations
// @Security     BearerAuth
// @Param        id   path  string  true  "Confirmation id"
// @Success      204
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /v1/confirmations/{id} [post]
func (h *ConfirmationHandler) Confirm(c echo.Context) error {
	_, sid, err := ctxSession(c)
	if err != nil {
		return err
	}
	id := c.Param("id")

	err = h.confirms.Confirm(c.Request().Context(), sid, id)
	metrics.ConfirmationsPending.Set(float64(h.confirms.Len()))
	if err != nil {
		h.log.Warn().Err(err).Str("confirmation_id", id).Msg("confirmation failed")
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Cancel handles DELETE /v1/confirmations/{id}.
//
// @Summary      Cancel a pending delete
// @Tags         confirmations
// @Security     BearerAuth
// @Param        id   path  string  true  "Confirmation id"
// @Success      204
// @Failure      404  {object}  errorBody
// @Router       /v1/confirmations/{id} [delete]
func (h *ConfirmationHandler) Cancel(c echo.Context) error {
	_, sid, err := ctxSession(c)
	if err != nil {
		return err
	}
	target, err := h.confirms.Cancel(sid, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.ConfirmationsTotal.WithLabelValues(target.Resource, "cancelled").Inc()
	metrics.ConfirmationsPending.Set(float64(h.confirms.Len()))
	return c.NoContent(http.StatusNoContent)
}
