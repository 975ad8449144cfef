package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/printmanage/console/internal/api/middleware"
	"github.com/printmanage/console/internal/session"
)

// ctxSession extracts the session injected by the Auth middleware.
// Presence proves the middleware ran.
func ctxSession(c echo.Context) (*session.Bound, string, error) {
	sess, _ := c.Get(middleware.SessionKey).(*session.Bound)
	sid, _ := c.Get(middleware.SessionIDKey).(string)
	if sess == nil || sid == "" {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, sid, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// queryInt parses an optional positive integer query parameter.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return n, nil
}
