package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if IsLegacyDigest(digest) {
		t.Error("bcrypt digest misclassified as legacy")
	}
	if !VerifyPassword("s3cret", digest) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong", digest) {
		t.Error("wrong password accepted")
	}
}

func TestVerifyPassword_LegacyDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("admin123"))
	legacy := hex.EncodeToString(sum[:])

	if !IsLegacyDigest(legacy) {
		t.Fatal("sha256 hex digest not recognized as legacy")
	}
	if !VerifyPassword("admin123", legacy) {
		t.Error("legacy digest rejected correct password")
	}
	if VerifyPassword("admin124", legacy) {
		t.Error("legacy digest accepted wrong password")
	}
}

func TestSessionManager_IssueAndVerify(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	id := Identity{UserID: uuid.New(), Username: "admin", Role: RoleAdmin}

	token, err := m.Issue(id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != id {
		t.Errorf("identity round trip = %+v, want %+v", got, id)
	}
}

func TestSessionManager_RejectsExpired(t *testing.T) {
	m := NewSessionManager("test-secret", -time.Minute)
	token, err := m.Issue(Identity{UserID: uuid.New(), Username: "admin", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Error("expired token verified")
	}
}

func TestSessionManager_RejectsForeignSecret(t *testing.T) {
	a := NewSessionManager("secret-a", time.Hour)
	b := NewSessionManager("secret-b", time.Hour)

	token, err := a.Issue(Identity{UserID: uuid.New(), Username: "admin", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Verify(token); err == nil {
		t.Error("token signed with a different secret verified")
	}
}

func TestSessionManager_EphemeralSecret(t *testing.T) {
	m := NewSessionManager("", 30*time.Minute)
	token, err := m.Issue(Identity{UserID: uuid.New(), Username: "dev", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(token); err != nil {
		t.Errorf("Verify with ephemeral secret: %v", err)
	}
}

func sessionRequest(t *testing.T, m *SessionManager, decorate func(*http.Request, string)) *httptest.ResponseRecorder {
	t.Helper()

	id := Identity{UserID: uuid.New(), Username: "admin", Role: RoleAdmin}
	token, err := m.Issue(id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req, token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SessionMiddleware(m)(func(c echo.Context) error {
		got, ok := IdentityFromContext(c)
		if !ok {
			t.Error("identity missing from context")
		}
		if got.Username != "admin" {
			t.Errorf("username = %q, want admin", got.Username)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestSessionMiddleware_BearerHeader(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	rec := sessionRequest(t, m, func(r *http.Request, token string) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestSessionMiddleware_Cookie(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	rec := sessionRequest(t, m, func(r *http.Request, token string) {
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestSessionMiddleware_MissingToken(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SessionMiddleware(m)(func(c echo.Context) error {
		t.Error("handler reached without a token")
		return nil
	})
	err := handler(c)
	if err == nil {
		t.Fatal("expected error")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("error = %v, want 401", err)
	}
}

func TestSessionMiddleware_GarbageToken(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SessionMiddleware(m)(func(c echo.Context) error { return nil })
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("error = %v, want 401", err)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	tests := []struct {
		name     string
		role     string
		required []string
		wantCode int
	}{
		{"admin passes any check", RoleAdmin, []string{"receptionist"}, http.StatusOK},
		{"exact role passes", "receptionist", []string{"receptionist"}, http.StatusOK},
		{"other role forbidden", "clinician", []string{"receptionist"}, http.StatusForbidden},
		{"no role forbidden", "", []string{"receptionist"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != "" {
				c.Set(ContextRole, tt.role)
			}

			err := RequireRole(tt.required...)(next)(c)
			code := rec.Code
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
			}
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d", code, tt.wantCode)
			}
		})
	}
}
