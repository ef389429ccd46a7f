package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/repository/base"
)

type MedicalRecordRepository struct {
	*base.Repository
}

func NewMedicalRecordRepository(pool *pgxpool.Pool) *MedicalRecordRepository {
	return &MedicalRecordRepository{Repository: base.NewRepository(pool)}
}

func (r *MedicalRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (appointment_id, clinic_id, pet_id, diagnosis, treatment, prescriptions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		record.AppointmentID,
		record.ClinicID,
		record.PetID,
		record.Diagnosis,
		record.Treatment,
		record.Prescriptions,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return fmt.Errorf("create medical record: %w", err)
	}

	return nil
}

func (r *MedicalRecordRepository) ListByPet(ctx context.Context, petID uuid.UUID) ([]*model.MedicalRecord, error) {
	query := `
		SELECT id, appointment_id, clinic_id, pet_id, diagnosis, treatment, prescriptions, created_at
		FROM medical_records
		WHERE pet_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, petID)
	if err != nil {
		return nil, fmt.Errorf("list medical records by pet: %w", err)
	}
	defer rows.Close()

	var records []*model.MedicalRecord
	for rows.Next() {
		var record model.MedicalRecord
		err := rows.Scan(
			&record.ID,
			&record.AppointmentID,
			&record.ClinicID,
			&record.PetID,
			&record.Diagnosis,
			&record.Treatment,
			&record.Prescriptions,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan medical record: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
