package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// combineDateTime merges the form's date (YYYY-MM-DD) and time (HH:MM)
// fields. An empty time books the start of the day.
func combineDateTime(date, clock string) (time.Time, error) {
	if date == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date or time: use YYYY-MM-DD and HH:MM")
	}
	return t, nil
}

func (s *Service) CreateAppointment(ctx context.Context, req CreateRequest) (*Appointment, error) {
	if req.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("doctor_id is required")
	}
	if req.Fee < 0 {
		return nil, fmt.Errorf("fee must not be negative")
	}
	when, err := combineDateTime(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: when,
		Fee:             req.Fee,
		Status:          StatusScheduled,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Appointment, error) {
	if req.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("doctor_id is required")
	}
	if req.Fee < 0 {
		return nil, fmt.Errorf("fee must not be negative")
	}
	if req.Status == "" {
		req.Status = StatusScheduled
	}
	if !validStatuses[req.Status] {
		return nil, fmt.Errorf("invalid status: %s", req.Status)
	}
	when, err := combineDateTime(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		ID:              id,
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: when,
		Fee:             req.Fee,
		Status:          req.Status,
		Notes:           req.Notes,
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, date string, limit, offset int) ([]*Appointment, int, error) {
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, 0, fmt.Errorf("invalid date filter: use YYYY-MM-DD")
		}
	}
	return s.repo.List(ctx, date, limit, offset)
}

// Complete marks the appointment completed regardless of its current status.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusCompleted)
}

// Cancel marks the appointment cancelled regardless of its current status.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}
