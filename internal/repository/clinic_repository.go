package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/repository/base"
)

type ClinicRepository struct {
	*base.Repository
}

func NewClinicRepository(pool *pgxpool.Pool) *ClinicRepository {
	return &ClinicRepository{Repository: base.NewRepository(pool)}
}

func (r *ClinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (owner_user_id, name, address, phone, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		clinic.OwnerUserID,
		clinic.Name,
		clinic.Address,
		clinic.Phone,
		clinic.Description,
	).Scan(&clinic.ID, &clinic.CreatedAt)

	if err != nil {
		return fmt.Errorf("create clinic: %w", err)
	}

	return nil
}

// GetByID returns the clinic or nil when absent.
func (r *ClinicRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, owner_user_id, name, address, phone, description, created_at
		FROM clinics
		WHERE id = $1
	`

	var clinic model.Clinic
	err := r.QueryRow(ctx, query, id).Scan(
		&clinic.ID,
		&clinic.OwnerUserID,
		&clinic.Name,
		&clinic.Address,
		&clinic.Phone,
		&clinic.Description,
		&clinic.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get clinic by id: %w", err)
	}

	return &clinic, nil
}

func (r *ClinicRepository) List(ctx context.Context) ([]*model.Clinic, error) {
	query := `
		SELECT id, owner_user_id, name, address, phone, description, created_at
		FROM clinics
		ORDER BY name
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer rows.Close()

	var clinics []*model.Clinic
	for rows.Next() {
		var clinic model.Clinic
		err := rows.Scan(
			&clinic.ID,
			&clinic.OwnerUserID,
			&clinic.Name,
			&clinic.Address,
			&clinic.Phone,
			&clinic.Description,
			&clinic.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		clinics = append(clinics, &clinic)
	}

	return clinics, rows.Err()
}
