package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctors table. Fee is the consultation charge copied
// onto new appointments.
type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Specialization string    `db:"specialization" json:"specialization"`
	Phone          string    `db:"phone" json:"phone"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Experience     int       `db:"experience" json:"experience"`
	Fee            float64   `db:"fee" json:"fee"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
