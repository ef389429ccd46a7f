package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/apperr"
	"github.com/vetdesk/vetdesk/internal/model"
	"go.uber.org/zap"
)

type PetService struct {
	pets   PetStore
	logger *zap.Logger
}

func NewPetService(pets PetStore, logger *zap.Logger) *PetService {
	return &PetService{pets: pets, logger: logger}
}

func (s *PetService) Register(ctx context.Context, pet *model.Pet) (*model.Pet, error) {
	if pet.Name == "" {
		return nil, apperr.Validationf("pet name is required")
	}
	if pet.OwnerID == uuid.Nil {
		return nil, apperr.Validationf("pet owner is required")
	}

	if err := s.pets.Create(ctx, pet); err != nil {
		return nil, fmt.Errorf("register pet: %w", err)
	}

	s.logger.Info("Pet registered",
		zap.String("pet_id", pet.ID.String()),
		zap.String("owner_id", pet.OwnerID.String()),
		zap.String("name", pet.Name),
	)

	return pet, nil
}

func (s *PetService) Get(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	pet, err := s.pets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get pet: %w", err)
	}
	if pet == nil {
		return nil, apperr.NotFoundf("pet %s", id)
	}
	return pet, nil
}

func (s *PetService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error) {
	return s.pets.ListByOwner(ctx, ownerID)
}
