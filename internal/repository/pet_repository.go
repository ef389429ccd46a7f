package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/repository/base"
)

type PetRepository struct {
	*base.Repository
}

func NewPetRepository(pool *pgxpool.Pool) *PetRepository {
	return &PetRepository{Repository: base.NewRepository(pool)}
}

func (r *PetRepository) Create(ctx context.Context, pet *model.Pet) error {
	query := `
		INSERT INTO pets (owner_id, name, species, breed, birth_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	var birthDate *time.Time
	if !pet.BirthDate.IsZero() {
		d := pet.BirthDate.At(0)
		birthDate = &d
	}

	err := r.QueryRow(
		ctx, query,
		pet.OwnerID,
		pet.Name,
		pet.Species,
		pet.Breed,
		birthDate,
		pet.Notes,
	).Scan(&pet.ID, &pet.CreatedAt)

	if err != nil {
		return fmt.Errorf("create pet: %w", err)
	}

	return nil
}

// GetByID returns the pet or nil when absent.
func (r *PetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	query := `
		SELECT id, owner_id, name, species, breed, birth_date, notes, created_at
		FROM pets
		WHERE id = $1
	`

	pet, err := scanPet(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pet by id: %w", err)
	}

	return pet, nil
}

func (r *PetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error) {
	query := `
		SELECT id, owner_id, name, species, breed, birth_date, notes, created_at
		FROM pets
		WHERE owner_id = $1
		ORDER BY name
	`

	rows, err := r.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pets by owner: %w", err)
	}
	defer rows.Close()

	var pets []*model.Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		pets = append(pets, pet)
	}

	return pets, rows.Err()
}

func scanPet(row interface{ Scan(dest ...any) error }) (*model.Pet, error) {
	var pet model.Pet
	var birthDate *time.Time

	err := row.Scan(
		&pet.ID,
		&pet.OwnerID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&birthDate,
		&pet.Notes,
		&pet.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if birthDate != nil {
		pet.BirthDate = model.DateOf(*birthDate)
	}

	return &pet, nil
}
