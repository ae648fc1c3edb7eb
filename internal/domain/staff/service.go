package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/auth"
)

// ErrInvalidCredentials is returned for every login failure. Callers must not
// reveal whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	repo     Repository
	sessions *auth.SessionManager
}

func NewService(repo Repository, sessions *auth.SessionManager) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Authenticate checks credentials and issues a session token. Only staff with
// the Admin role may log in; everyone else gets the same generic error as a
// bad password. Legacy SHA-256 digests are upgraded to bcrypt on first
// successful login.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, *Staff, error) {
	member, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if member.Role != auth.RoleAdmin {
		return "", nil, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(password, member.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	if auth.IsLegacyDigest(member.PasswordHash) {
		if rehashed, err := auth.HashPassword(password); err == nil {
			if err := s.repo.UpdatePassword(ctx, member.ID, rehashed); err == nil {
				member.PasswordHash = rehashed
			}
		}
	}

	token, err := s.sessions.Issue(auth.Identity{
		UserID:   member.ID,
		Username: member.Username,
		Role:     member.Role,
	})
	if err != nil {
		return "", nil, fmt.Errorf("issuing session: %w", err)
	}
	return token, member, nil
}

// CreateStaff registers a new staff member with a bcrypt password digest.
func (s *Service) CreateStaff(ctx context.Context, req CreateRequest) (*Staff, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if req.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	role := req.Role
	if role == "" {
		role = auth.RoleAdmin
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	member := &Staff{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Name:         strings.TrimSpace(req.Name),
		Email:        optional(req.Email),
		Phone:        optional(req.Phone),
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// ResetPassword replaces a staff member's password digest.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required")
	}
	member, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, member.ID, hash)
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListStaff(ctx context.Context, limit, offset int) ([]*Staff, int, error) {
	return s.repo.List(ctx, limit, offset)
}
