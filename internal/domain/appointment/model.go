package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. The lifecycle is deliberately permissive: complete
// and cancel overwrite whatever state the row is in, so a cancelled booking
// can be reinstated by marking it completed.
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Appointment maps to the appointments table. PatientName, DoctorName and
// DoctorSpecialization are joined display columns, never written back.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	AppointmentDate time.Time `db:"appointment_date" json:"appointment_date"`
	Fee             float64   `db:"fee" json:"fee"`
	Status          string    `db:"status" json:"status"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`

	PatientName          string `db:"patient_name" json:"patient_name,omitempty"`
	DoctorName           string `db:"doctor_name" json:"doctor_name,omitempty"`
	DoctorSpecialization string `db:"doctor_specialization" json:"doctor_specialization,omitempty"`
}

// CreateRequest is the booking form payload. Date and Time arrive as the
// separate fields the scheduling form collects and are combined into one
// timestamp.
type CreateRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Fee       float64   `json:"fee"`
	Notes     *string   `json:"notes,omitempty"`
}

// UpdateRequest is the edit form payload.
type UpdateRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Fee       float64   `json:"fee"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes,omitempty"`
}
