package auth

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the cookie the browser client stores the session token in.
// The Authorization header takes precedence when both are present.
const SessionCookie = "hms_session"

// Identity is the authenticated staff member attached to a request.
type Identity struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// SessionClaims is the JWT payload for a staff session.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SessionManager issues and verifies signed session tokens. Tokens are
// stateless; logout is client-side discard plus expiry.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager builds a manager signing with secret. An empty secret
// generates a random ephemeral one, which is fine for development but means
// sessions do not survive a restart.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			// crypto/rand failing means the platform is broken anyway
			panic(fmt.Sprintf("auth: generating ephemeral session secret: %v", err))
		}
	}
	return &SessionManager{secret: key, ttl: ttl}
}

// Issue signs a session token for id, valid for the manager's TTL.
func (m *SessionManager) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
		Username: id.Username,
		Role:     id.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning the embedded identity.
func (m *SessionManager) Verify(tokenString string) (Identity, error) {
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("parsing session token: %w", err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("invalid session token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("parsing session subject: %w", err)
	}
	return Identity{UserID: userID, Username: claims.Username, Role: claims.Role}, nil
}

// TTL returns the session lifetime, used to set cookie expiry.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}
