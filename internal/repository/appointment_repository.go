package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/repository/base"
)

const appointmentColumns = `
	id, clinic_id, owner_id, pet_id, date, start_minutes, end_minutes,
	scheduled_at, status, reason, service, notes, clinic_notes, has_review,
	created_at, updated_at`

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

// Create persists a new appointment and fills in the assigned id and
// timestamps.
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (clinic_id, owner_id, pet_id, date, start_minutes, end_minutes,
		                          scheduled_at, status, reason, service, notes, has_review)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	var date *time.Time
	var startMinutes, endMinutes *int
	if a.SlotBased() {
		d := a.Date.At(0)
		s, e := a.StartTime.Minutes(), a.EndTime.Minutes()
		date, startMinutes, endMinutes = &d, &s, &e
	}

	err := r.QueryRow(
		ctx, query,
		a.ClinicID,
		a.OwnerID,
		a.PetID,
		date,
		startMinutes,
		endMinutes,
		a.ScheduledAt,
		a.Status,
		a.Reason,
		a.Service,
		a.Notes,
		a.HasReview,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID returns the appointment or nil when absent.
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return a, nil
}

// ListByClinicDate returns a clinic's appointments on a calendar date.
// Legacy records match through their scheduled_at-derived date.
func (r *AppointmentRepository) ListByClinicDate(ctx context.Context, clinicID uuid.UUID, date model.CalendarDate) ([]*model.Appointment, error) {
	query := `
		SELECT` + appointmentColumns + `
		FROM appointments
		WHERE clinic_id = $1
		  AND (date = $2 OR (date IS NULL AND scheduled_at >= $2 AND scheduled_at < $3))
		ORDER BY COALESCE(start_minutes, 0), created_at
	`

	dayStart := date.At(0)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := r.Query(ctx, query, clinicID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list appointments by clinic and date: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// ListByOwner returns every appointment booked by the pet owner.
func (r *AppointmentRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT` + appointmentColumns + `
		FROM appointments
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by owner: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// ListByClinic returns every appointment at the clinic.
func (r *AppointmentRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT` + appointmentColumns + `
		FROM appointments
		WHERE clinic_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by clinic: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// ListByStatus returns all appointments in the given status. The lifecycle
// sweeper and the reminder checker scan confirmed ones with this.
func (r *AppointmentRepository) ListByStatus(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	query := `
		SELECT` + appointmentColumns + `
		FROM appointments
		WHERE status = $1
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list appointments by status: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// UpdateStatus moves the appointment to a new lifecycle status.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}

	return nil
}

// UpdateInterval rewrites the appointment's occupied interval. Extending a
// legacy record converts it to the date+start/end representation.
func (r *AppointmentRepository) UpdateInterval(ctx context.Context, id uuid.UUID, date model.CalendarDate, start, end model.TimeOfDay) error {
	query := `
		UPDATE appointments
		SET date = $1, start_minutes = $2, end_minutes = $3, scheduled_at = NULL, updated_at = now()
		WHERE id = $4
	`

	affected, err := r.ExecAffected(ctx, query, date.At(0), start.Minutes(), end.Minutes(), id)
	if err != nil {
		return fmt.Errorf("update appointment interval: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}

	return nil
}

// SetHasReview flips the one-review-per-appointment guard.
func (r *AppointmentRepository) SetHasReview(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE appointments
		SET has_review = TRUE, updated_at = now()
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("set appointment has_review: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}

	return nil
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var a model.Appointment
	var date *time.Time
	var startMinutes, endMinutes *int

	err := row.Scan(
		&a.ID,
		&a.ClinicID,
		&a.OwnerID,
		&a.PetID,
		&date,
		&startMinutes,
		&endMinutes,
		&a.ScheduledAt,
		&a.Status,
		&a.Reason,
		&a.Service,
		&a.Notes,
		&a.ClinicNotes,
		&a.HasReview,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if date != nil {
		a.Date = model.DateOf(*date)
	}
	if startMinutes != nil {
		a.StartTime = model.TimeOfDay(*startMinutes)
	}
	if endMinutes != nil {
		a.EndTime = model.TimeOfDay(*endMinutes)
	}

	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]*model.Appointment, error) {
	var appointments []*model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}
