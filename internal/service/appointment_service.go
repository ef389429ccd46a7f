package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/apperr"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/notify"
	"github.com/vetdesk/vetdesk/internal/observability/metrics"
	"github.com/vetdesk/vetdesk/internal/schedule"
	"go.uber.org/zap"
)

// AppointmentService coordinates the appointment lifecycle: booking,
// approval, rejection, extension, cancellation and the periodic
// completed-sweep. Availability is checked before every write that
// reserves or grows an interval; the approval-time re-check is the
// authoritative conflict guard.
type AppointmentService struct {
	appointments AppointmentStore
	pets         PetStore
	clinics      ClinicStore
	availability *AvailabilityChecker
	sink         notify.EventSink
	metrics      *metrics.BookingMetrics
	logger       *zap.Logger
	now          func() time.Time
}

func NewAppointmentService(
	appointments AppointmentStore,
	pets PetStore,
	clinics ClinicStore,
	availability *AvailabilityChecker,
	sink notify.EventSink,
	bookingMetrics *metrics.BookingMetrics,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		pets:         pets,
		clinics:      clinics,
		availability: availability,
		sink:         sink,
		metrics:      bookingMetrics,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the service's time source. Tests only.
func (s *AppointmentService) WithClock(now func() time.Time) *AppointmentService {
	s.now = now
	return s
}

type BookRequest struct {
	OwnerID   uuid.UUID
	ClinicID  uuid.UUID
	PetID     uuid.UUID
	Date      model.CalendarDate
	StartTime model.TimeOfDay
	EndTime   model.TimeOfDay
	Reason    string
	Service   string
	Notes     string
}

// Book validates and persists a new appointment request as pending.
// The availability check here is advisory: it stops obvious
// double-submissions, while the approval re-check catches the race window
// between concurrent bookings.
func (s *AppointmentService) Book(ctx context.Context, req BookRequest) (*model.Appointment, error) {
	if !req.StartTime.Valid() || !req.EndTime.Valid() {
		return nil, apperr.Validationf("appointment time out of range")
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, apperr.Validationf("start time %s must be before end time %s", req.StartTime, req.EndTime)
	}
	if req.Date.At(req.StartTime).Before(s.now()) {
		return nil, apperr.Validationf("cannot book an appointment in the past")
	}

	clinic, err := s.clinics.GetByID(ctx, req.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("check clinic: %w", err)
	}
	if clinic == nil {
		return nil, apperr.NotFoundf("clinic %s", req.ClinicID)
	}

	pet, err := s.pets.GetByID(ctx, req.PetID)
	if err != nil {
		return nil, fmt.Errorf("check pet: %w", err)
	}
	if pet == nil {
		return nil, apperr.NotFoundf("pet %s", req.PetID)
	}
	if pet.OwnerID != req.OwnerID {
		return nil, apperr.Validationf("pet %s does not belong to the requesting owner", req.PetID)
	}

	if !s.availability.IsAvailable(ctx, req.ClinicID, req.Date, req.StartTime, req.EndTime, uuid.Nil) {
		s.metrics.ConflictDetected("book")
		return nil, apperr.Conflictf("slot no longer available")
	}

	appointment := &model.Appointment{
		ClinicID:  req.ClinicID,
		OwnerID:   req.OwnerID,
		PetID:     req.PetID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.AppointmentStatusPending,
		Reason:    req.Reason,
		Service:   req.Service,
		Notes:     req.Notes,
		HasReview: false,
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.metrics.BookingCreated(req.Service)
	s.logger.Info("Appointment booked",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("clinic_id", req.ClinicID.String()),
		zap.String("pet_id", req.PetID.String()),
		zap.String("date", req.Date.String()),
		zap.String("start", req.StartTime.String()),
	)

	s.emit(ctx, notify.KindNewBooking, appointment, clinic.OwnerUserID)

	return appointment, nil
}

// Approve moves a pending appointment to confirmed, re-validating
// availability against everything booked since, excluding the appointment
// itself. First successful approval wins; a second pending request for the
// same interval fails here with a conflict.
func (s *AppointmentService) Approve(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != model.AppointmentStatusPending {
		return nil, apperr.InvalidStatef("appointment is %s, only pending appointments can be approved", appointment.Status)
	}

	date, startTime, endTime, ok := appointment.Occurrence()
	if !ok {
		return nil, apperr.InvalidStatef("appointment %s has no scheduled interval", id)
	}

	if !s.availability.IsAvailable(ctx, appointment.ClinicID, date, startTime, endTime, appointment.ID) {
		s.metrics.ConflictDetected("approve")
		return nil, apperr.Conflictf("interval conflicts with another appointment")
	}

	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusConfirmed); err != nil {
		return nil, fmt.Errorf("confirm appointment: %w", err)
	}
	appointment.Status = model.AppointmentStatusConfirmed

	s.metrics.TransitionApplied(string(model.AppointmentStatusConfirmed))
	s.logger.Info("Appointment approved", zap.String("appointment_id", id.String()))

	s.emit(ctx, notify.KindBookingConfirmed, appointment, appointment.OwnerID)

	return appointment, nil
}

// Reject moves a pending appointment to rejected. No availability check:
// rejection never conflicts.
func (s *AppointmentService) Reject(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != model.AppointmentStatusPending {
		return nil, apperr.InvalidStatef("appointment is %s, only pending appointments can be rejected", appointment.Status)
	}

	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusRejected); err != nil {
		return nil, fmt.Errorf("reject appointment: %w", err)
	}
	appointment.Status = model.AppointmentStatusRejected

	s.metrics.TransitionApplied(string(model.AppointmentStatusRejected))
	s.logger.Info("Appointment rejected", zap.String("appointment_id", id.String()))

	s.emit(ctx, notify.KindBookingRejected, appointment, appointment.OwnerID)

	return appointment, nil
}

// Extend grows a confirmed appointment's end time after re-validating the
// larger interval. Extending a legacy single-instant record rewrites it to
// the date+start/end representation.
func (s *AppointmentService) Extend(ctx context.Context, id uuid.UUID, newEnd model.TimeOfDay) (*model.Appointment, error) {
	appointment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != model.AppointmentStatusConfirmed {
		return nil, apperr.InvalidStatef("appointment is %s, only confirmed appointments can be extended", appointment.Status)
	}

	date, startTime, endTime, ok := appointment.Occurrence()
	if !ok {
		return nil, apperr.InvalidStatef("appointment %s has no scheduled interval", id)
	}

	if !newEnd.Valid() {
		return nil, apperr.Validationf("new end time out of range")
	}
	if !endTime.Before(newEnd) {
		return nil, apperr.Validationf("new end time %s must be after current end %s", newEnd, endTime)
	}

	if !s.availability.IsAvailable(ctx, appointment.ClinicID, date, startTime, newEnd, appointment.ID) {
		s.metrics.ConflictDetected("extend")
		return nil, apperr.Conflictf("extended interval conflicts with another appointment")
	}

	if err := s.appointments.UpdateInterval(ctx, id, date, startTime, newEnd); err != nil {
		return nil, fmt.Errorf("extend appointment: %w", err)
	}
	appointment.Date = date
	appointment.StartTime = startTime
	appointment.EndTime = newEnd
	appointment.ScheduledAt = nil

	s.logger.Info("Appointment extended",
		zap.String("appointment_id", id.String()),
		zap.String("new_end", newEnd.String()),
	)

	s.emit(ctx, notify.KindAppointmentExtended, appointment, appointment.OwnerID)

	return appointment, nil
}

// Cancel lets the booking owner or the clinic owner cancel a live
// appointment.
func (s *AppointmentService) Cancel(ctx context.Context, id, requesterID uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appointment.Status.Live() {
		return nil, apperr.InvalidStatef("appointment is %s and can no longer be cancelled", appointment.Status)
	}

	allowed := appointment.OwnerID == requesterID
	if !allowed {
		clinic, err := s.clinics.GetByID(ctx, appointment.ClinicID)
		if err != nil {
			return nil, fmt.Errorf("check clinic owner: %w", err)
		}
		allowed = clinic != nil && clinic.OwnerUserID == requesterID
	}
	if !allowed {
		return nil, apperr.Validationf("user %s may not cancel this appointment", requesterID)
	}

	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	appointment.Status = model.AppointmentStatusCancelled

	s.metrics.TransitionApplied(string(model.AppointmentStatusCancelled))
	s.logger.Info("Appointment cancelled",
		zap.String("appointment_id", id.String()),
		zap.String("requester_id", requesterID.String()),
	)

	return appointment, nil
}

// Complete is the clinic's explicit "mark done", unconditional on time.
func (s *AppointmentService) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != model.AppointmentStatusConfirmed {
		return nil, apperr.InvalidStatef("appointment is %s, only confirmed appointments can be completed", appointment.Status)
	}

	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusCompleted); err != nil {
		return nil, fmt.Errorf("complete appointment: %w", err)
	}
	appointment.Status = model.AppointmentStatusCompleted

	s.metrics.TransitionApplied(string(model.AppointmentStatusCompleted))
	s.logger.Info("Appointment completed", zap.String("appointment_id", id.String()))

	s.emit(ctx, notify.KindAppointmentCompleted, appointment, appointment.OwnerID)

	return appointment, nil
}

// SweepOnce promotes past-due confirmed appointments to completed.
// Transitions are persisted independently: one failure is logged and the
// rest still go through, and rerunning picks up the stragglers.
func (s *AppointmentService) SweepOnce(ctx context.Context) (int, error) {
	confirmed, err := s.appointments.ListByStatus(ctx, model.AppointmentStatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("list confirmed appointments: %w", err)
	}

	byID := make(map[uuid.UUID]*model.Appointment, len(confirmed))
	for _, a := range confirmed {
		byID[a.ID] = a
	}

	applied := 0
	for _, transition := range schedule.Sweep(confirmed, s.now()) {
		if err := s.appointments.UpdateStatus(ctx, transition.AppointmentID, transition.To); err != nil {
			s.logger.Error("Failed to apply sweep transition",
				zap.String("appointment_id", transition.AppointmentID.String()),
				zap.Error(err),
			)
			continue
		}
		applied++
		s.metrics.TransitionApplied(string(transition.To))

		if appointment := byID[transition.AppointmentID]; appointment != nil {
			appointment.Status = transition.To
			s.emit(ctx, notify.KindAppointmentCompleted, appointment, appointment.OwnerID)
		}
	}

	if applied > 0 {
		s.metrics.SweepPromoted(applied)
		s.logger.Info("Sweep promoted appointments to completed", zap.Int("count", applied))
	}

	return applied, nil
}

// Get returns the appointment or a not-found error.
func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.load(ctx, id)
}

func (s *AppointmentService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Appointment, error) {
	return s.appointments.ListByOwner(ctx, ownerID)
}

func (s *AppointmentService) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Appointment, error) {
	return s.appointments.ListByClinic(ctx, clinicID)
}

func (s *AppointmentService) ListByClinicDate(ctx context.Context, clinicID uuid.UUID, date model.CalendarDate) ([]*model.Appointment, error) {
	return s.appointments.ListByClinicDate(ctx, clinicID, date)
}

func (s *AppointmentService) load(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, apperr.NotFoundf("appointment %s", id)
	}
	return appointment, nil
}

// emit sends a notification event, best-effort. Delivery failure never
// rolls back the state transition that triggered it.
func (s *AppointmentService) emit(ctx context.Context, kind notify.Kind, appointment *model.Appointment, toUserID uuid.UUID) {
	date, startTime, endTime, _ := appointment.Occurrence()
	event := notify.Event{
		Kind:          kind,
		ToUserID:      toUserID,
		AppointmentID: appointment.ID,
		Date:          date,
		Start:         startTime,
		End:           endTime,
		Service:       appointment.Service,
	}

	if clinic, err := s.clinics.GetByID(ctx, appointment.ClinicID); err == nil && clinic != nil {
		event.ClinicName = clinic.Name
	}
	if pet, err := s.pets.GetByID(ctx, appointment.PetID); err == nil && pet != nil {
		event.PetName = pet.Name
	}

	if err := s.sink.Emit(ctx, event); err != nil {
		s.logger.Warn("Failed to emit notification",
			zap.String("kind", string(kind)),
			zap.String("appointment_id", appointment.ID.String()),
			zap.Error(err),
		)
	}
}
