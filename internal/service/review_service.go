package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/apperr"
	"github.com/vetdesk/vetdesk/internal/model"
	"go.uber.org/zap"
)

// ReviewService accepts one review per completed appointment.
type ReviewService struct {
	appointments AppointmentStore
	reviews      ReviewStore
	logger       *zap.Logger
}

func NewReviewService(appointments AppointmentStore, reviews ReviewStore, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		appointments: appointments,
		reviews:      reviews,
		logger:       logger,
	}
}

// Submit records the owner's review and flips the appointment's review
// guard. A second submission for the same appointment fails.
func (s *ReviewService) Submit(ctx context.Context, appointmentID, ownerID uuid.UUID, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validationf("rating must be between 1 and 5")
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, apperr.NotFoundf("appointment %s", appointmentID)
	}
	if appointment.OwnerID != ownerID {
		return nil, apperr.Validationf("only the booking owner may review the appointment")
	}
	if appointment.Status != model.AppointmentStatusCompleted {
		return nil, apperr.InvalidStatef("appointment is %s, only completed appointments can be reviewed", appointment.Status)
	}
	if appointment.HasReview {
		return nil, apperr.InvalidStatef("appointment %s already has a review", appointmentID)
	}

	review := &model.Review{
		AppointmentID: appointmentID,
		ClinicID:      appointment.ClinicID,
		OwnerID:       ownerID,
		Rating:        rating,
		Comment:       comment,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if err := s.appointments.SetHasReview(ctx, appointmentID); err != nil {
		return nil, fmt.Errorf("mark appointment reviewed: %w", err)
	}

	s.logger.Info("Review submitted",
		zap.String("appointment_id", appointmentID.String()),
		zap.Int("rating", rating),
	)

	return review, nil
}

func (s *ReviewService) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Review, error) {
	return s.reviews.ListByClinic(ctx, clinicID)
}
