package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/apperr"
	"github.com/vetdesk/vetdesk/internal/model"
	"go.uber.org/zap"
)

// RecordService issues medical records against completed appointments.
type RecordService struct {
	appointments AppointmentStore
	records      MedicalRecordStore
	logger       *zap.Logger
}

func NewRecordService(appointments AppointmentStore, records MedicalRecordStore, logger *zap.Logger) *RecordService {
	return &RecordService{
		appointments: appointments,
		records:      records,
		logger:       logger,
	}
}

func (s *RecordService) Issue(ctx context.Context, appointmentID uuid.UUID, diagnosis, treatment, prescriptions string) (*model.MedicalRecord, error) {
	if diagnosis == "" {
		return nil, apperr.Validationf("diagnosis is required")
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, apperr.NotFoundf("appointment %s", appointmentID)
	}
	if appointment.Status != model.AppointmentStatusCompleted {
		return nil, apperr.InvalidStatef("appointment is %s, records are issued for completed visits", appointment.Status)
	}

	record := &model.MedicalRecord{
		AppointmentID: appointmentID,
		ClinicID:      appointment.ClinicID,
		PetID:         appointment.PetID,
		Diagnosis:     diagnosis,
		Treatment:     treatment,
		Prescriptions: prescriptions,
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create medical record: %w", err)
	}

	s.logger.Info("Medical record issued",
		zap.String("appointment_id", appointmentID.String()),
		zap.String("pet_id", record.PetID.String()),
	)

	return record, nil
}

func (s *RecordService) ListByPet(ctx context.Context, petID uuid.UUID) ([]*model.MedicalRecord, error) {
	return s.records.ListByPet(ctx, petID)
}
