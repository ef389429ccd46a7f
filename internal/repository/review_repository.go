package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/repository/base"
)

type ReviewRepository struct {
	*base.Repository
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{Repository: base.NewRepository(pool)}
}

func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (appointment_id, clinic_id, owner_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		review.AppointmentID,
		review.ClinicID,
		review.OwnerID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *ReviewRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Review, error) {
	query := `
		SELECT id, appointment_id, clinic_id, owner_id, rating, comment, created_at
		FROM reviews
		WHERE clinic_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by clinic: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		var review model.Review
		err := rows.Scan(
			&review.ID,
			&review.AppointmentID,
			&review.ClinicID,
			&review.OwnerID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}
