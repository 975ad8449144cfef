package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/printmanage/console/internal/session"
)

// Context keys set by Auth.
const (
	SessionKey   = "session"
	SessionIDKey = "session_id"
	RoleKey      = "role"
)

// SessionResolver loads the session a token points to.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (*session.Bound, error)
}

// Auth validates the JWT, loads the session named by its "sid" claim and
// injects it into the context. A session whose store token was cleared
// is treated as signed out.
func Auth(jwtSecret string, sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sid, _ := claims["sid"].(string)
			if sid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			sess, err := sessions.Resolve(c.Request().Context(), sid)
			if err != nil {
				return err
			}
			if sess.Token() == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			c.Set(SessionKey, sess)
			c.Set(SessionIDKey, sid)
			c.Set(RoleKey, sess.Role())

			return next(c)
		}
	}
}
