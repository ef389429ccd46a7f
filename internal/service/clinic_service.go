package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/apperr"
	"github.com/vetdesk/vetdesk/internal/model"
	"go.uber.org/zap"
)

// ClinicService manages clinics and their working hours.
type ClinicService struct {
	clinics ClinicStore
	hours   WorkingHoursStore
	logger  *zap.Logger
}

func NewClinicService(clinics ClinicStore, hours WorkingHoursStore, logger *zap.Logger) *ClinicService {
	return &ClinicService{
		clinics: clinics,
		hours:   hours,
		logger:  logger,
	}
}

func (s *ClinicService) Register(ctx context.Context, clinic *model.Clinic) (*model.Clinic, error) {
	if clinic.Name == "" {
		return nil, apperr.Validationf("clinic name is required")
	}

	if err := s.clinics.Create(ctx, clinic); err != nil {
		return nil, fmt.Errorf("register clinic: %w", err)
	}

	s.logger.Info("Clinic registered",
		zap.String("clinic_id", clinic.ID.String()),
		zap.String("name", clinic.Name),
	)

	return clinic, nil
}

func (s *ClinicService) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, err := s.clinics.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	if clinic == nil {
		return nil, apperr.NotFoundf("clinic %s", id)
	}
	return clinic, nil
}

func (s *ClinicService) List(ctx context.Context) ([]*model.Clinic, error) {
	return s.clinics.List(ctx)
}

// WorkingHours returns the clinic's configured hours, substituting the
// 08:00–17:00 default when none are set. Never fails: a store read error is
// logged and the default returned, so slot listings stay usable.
func (s *ClinicService) WorkingHours(ctx context.Context, clinicID uuid.UUID) model.WorkingHours {
	hours, err := s.hours.Get(ctx, clinicID)
	if err != nil {
		s.logger.Warn("Failed to read working hours, using defaults",
			zap.String("clinic_id", clinicID.String()),
			zap.Error(err),
		)
		return model.DefaultWorkingHours(clinicID)
	}
	if hours == nil {
		return model.DefaultWorkingHours(clinicID)
	}
	return *hours
}

// SetWorkingHours validates and persists the clinic's daily window.
// The window must run forward and span between 1 and 16 hours.
func (s *ClinicService) SetWorkingHours(ctx context.Context, clinicID uuid.UUID, start, end model.TimeOfDay) error {
	if !start.Valid() || !end.Valid() {
		return apperr.Validationf("working hours out of range")
	}
	if !start.Before(end) {
		return apperr.Validationf("opening time %s must be before closing time %s", start, end)
	}

	hours := model.WorkingHours{ClinicID: clinicID, Start: start, End: end}
	if hours.Duration() < model.MinWorkingHoursDuration {
		return apperr.Validationf("working hours must span at least %d minutes", model.MinWorkingHoursDuration)
	}
	if hours.Duration() > model.MaxWorkingHoursDuration {
		return apperr.Validationf("working hours must span at most %d minutes", model.MaxWorkingHoursDuration)
	}

	if err := s.hours.Upsert(ctx, hours); err != nil {
		return fmt.Errorf("set working hours: %w", err)
	}

	s.logger.Info("Working hours updated",
		zap.String("clinic_id", clinicID.String()),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
	)

	return nil
}
