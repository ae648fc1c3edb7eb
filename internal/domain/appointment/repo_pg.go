package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(_ context.Context) querier {
	return r.pool
}

// Every read joins the patient and doctor so lists render without N+1 lookups.
const apptCols = `a.id, a.patient_id, a.doctor_id, a.appointment_date, a.fee, a.status, a.notes,
	a.created_at, a.updated_at,
	p.name AS patient_name, d.name AS doctor_name, d.specialization AS doctor_specialization`

const apptJoins = `FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	// A zero fee means "charge the doctor's consultation fee".
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, fee, status, notes)
		VALUES ($1, $2, $3, $4,
			COALESCE(NULLIF($5::numeric, 0), (SELECT fee FROM doctors WHERE id = $3), 0),
			$6, $7)`,
		a.ID, a.PatientID, a.DoctorID, a.AppointmentDate, a.Fee, a.Status, a.Notes,
	)
	if err != nil {
		return err
	}
	return r.conn(ctx).QueryRow(ctx,
		`SELECT fee FROM appointments WHERE id = $1`, a.ID).Scan(&a.Fee)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` `+apptJoins+` WHERE a.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET
			patient_id=$2, doctor_id=$3, appointment_date=$4, fee=$5, status=$6, notes=$7,
			updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.DoctorID, a.AppointmentDate, a.Fee, a.Status, a.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, date string, limit, offset int) ([]*Appointment, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	if date != "" {
		args = append(args, date)
		where += fmt.Sprintf(` AND a.appointment_date::date = $%d::date`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) `+apptJoins+` `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(
		`SELECT %s %s %s ORDER BY a.appointment_date DESC LIMIT $%d OFFSET $%d`,
		apptCols, apptJoins, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		appts = append(appts, a)
	}
	return appts, total, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate, &a.Fee, &a.Status, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
		&a.PatientName, &a.DoctorName, &a.DoctorSpecialization,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
