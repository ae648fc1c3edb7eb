package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	d.Specialization = strings.TrimSpace(d.Specialization)
	if d.Specialization == "" {
		return fmt.Errorf("specialization is required")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return fmt.Errorf("phone is required")
	}
	if d.Experience < 0 {
		return fmt.Errorf("experience must not be negative")
	}
	if d.Fee < 0 {
		return fmt.Errorf("fee must not be negative")
	}
	return nil
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if err := s.validate(d); err != nil {
		return err
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if err := s.validate(d); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, strings.TrimSpace(specialization), limit, offset)
}

func (s *Service) ListSpecializations(ctx context.Context) ([]string, error) {
	return s.repo.ListSpecializations(ctx)
}
