package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys set by SessionMiddleware.
const (
	ContextIdentity = "auth_identity"
	ContextUserID   = "auth_user_id"
	ContextRole     = "auth_role"
)

// SessionMiddleware authenticates every request in the group. The token is
// read from Authorization: Bearer first, then from the session cookie.
// Unauthenticated requests get a 401 without reaching the handler.
func SessionMiddleware(sessions *SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				if cookie, err := c.Cookie(SessionCookie); err == nil {
					token = cookie.Value
				}
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			id, err := sessions.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			c.Set(ContextIdentity, id)
			c.Set(ContextUserID, id.UserID)
			c.Set(ContextRole, id.Role)
			return next(c)
		}
	}
}

// IdentityFromContext returns the authenticated identity set by
// SessionMiddleware, or false if the request was not authenticated.
func IdentityFromContext(c echo.Context) (Identity, bool) {
	id, ok := c.Get(ContextIdentity).(Identity)
	return id, ok
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
