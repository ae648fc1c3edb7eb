package staff

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
)

type Handler struct {
	svc      *Service
	sessions *auth.SessionManager
	secure   bool
}

// NewHandler builds the auth handler. secure controls the session cookie's
// Secure flag and should be true everywhere except local development.
func NewHandler(svc *Service, sessions *auth.SessionManager, secure bool) *Handler {
	return &Handler{svc: svc, sessions: sessions, secure: secure}
}

// RegisterRoutes mounts login on the public group and the rest behind the
// session guard.
func (h *Handler) RegisterRoutes(public *echo.Group, api *echo.Group) {
	public.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", h.Me)
}

func (h *Handler) Login(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if creds.Username == "" || creds.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	token, member, err := h.svc.Authenticate(c.Request().Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	c.SetCookie(h.sessionCookie(token, h.sessions.TTL()))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  member,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	// Stateless sessions: clearing the cookie is all the server can do.
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) Me(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	member, err := h.svc.GetStaff(c.Request().Context(), id.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "staff member not found")
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
