package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/repository/base"
)

type WorkingHoursRepository struct {
	*base.Repository
}

func NewWorkingHoursRepository(pool *pgxpool.Pool) *WorkingHoursRepository {
	return &WorkingHoursRepository{Repository: base.NewRepository(pool)}
}

// Get returns the clinic's configured hours or nil when none were set yet.
func (r *WorkingHoursRepository) Get(ctx context.Context, clinicID uuid.UUID) (*model.WorkingHours, error) {
	query := `
		SELECT clinic_id, start_minutes, end_minutes
		FROM working_hours
		WHERE clinic_id = $1
	`

	var hours model.WorkingHours
	var startMinutes, endMinutes int
	err := r.QueryRow(ctx, query, clinicID).Scan(&hours.ClinicID, &startMinutes, &endMinutes)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get working hours: %w", err)
	}

	hours.Start = model.TimeOfDay(startMinutes)
	hours.End = model.TimeOfDay(endMinutes)
	return &hours, nil
}

// Upsert stores the clinic's hours, keyed by clinic id.
func (r *WorkingHoursRepository) Upsert(ctx context.Context, hours model.WorkingHours) error {
	query := `
		INSERT INTO working_hours (clinic_id, start_minutes, end_minutes)
		VALUES ($1, $2, $3)
		ON CONFLICT (clinic_id)
		DO UPDATE SET start_minutes = EXCLUDED.start_minutes, end_minutes = EXCLUDED.end_minutes
	`

	if _, err := r.ExecAffected(ctx, query, hours.ClinicID, hours.Start.Minutes(), hours.End.Minutes()); err != nil {
		return fmt.Errorf("upsert working hours: %w", err)
	}

	return nil
}
