package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/notify"
	"go.uber.org/zap"
)

// DefaultWindow is how far ahead the checker looks for appointments worth
// reminding about.
const DefaultWindow = 24 * time.Hour

type ConfirmedLister interface {
	ListByStatus(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error)
}

type ClinicDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
}

type PetDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Pet, error)
}

// Checker emits one reminder per upcoming confirmed appointment, with the
// ledger preventing repeats across runs and instances.
type Checker struct {
	appointments ConfirmedLister
	clinics      ClinicDirectory
	pets         PetDirectory
	ledger       Ledger
	sink         notify.EventSink
	window       time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewChecker(
	appointments ConfirmedLister,
	clinics ClinicDirectory,
	pets PetDirectory,
	ledger Ledger,
	sink notify.EventSink,
	logger *zap.Logger,
) *Checker {
	return &Checker{
		appointments: appointments,
		clinics:      clinics,
		pets:         pets,
		ledger:       ledger,
		sink:         sink,
		window:       DefaultWindow,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the checker's time source. Tests only.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// Run scans confirmed appointments starting within the window and sends a
// reminder for each not yet in the ledger. A ledger read error skips the
// appointment: a missed reminder beats a duplicate one.
func (c *Checker) Run(ctx context.Context) (int, error) {
	confirmed, err := c.appointments.ListByStatus(ctx, model.AppointmentStatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("list confirmed appointments: %w", err)
	}

	now := c.now()
	sent := 0

	for _, a := range confirmed {
		start, _, ok := a.EffectiveInterval()
		if !ok || !start.After(now) || start.Sub(now) > c.window {
			continue
		}

		date, startTime, endTime, _ := a.Occurrence()
		key := Key(a.ID, date)

		already, err := c.ledger.HasSent(ctx, key)
		if err != nil {
			c.logger.Warn("Reminder ledger read failed, skipping appointment",
				zap.String("appointment_id", a.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if already {
			continue
		}

		event := notify.Event{
			Kind:          notify.KindAppointmentReminder,
			ToUserID:      a.OwnerID,
			AppointmentID: a.ID,
			Date:          date,
			Start:         startTime,
			End:           endTime,
			Service:       a.Service,
		}
		if clinic, err := c.clinics.GetByID(ctx, a.ClinicID); err == nil && clinic != nil {
			event.ClinicName = clinic.Name
		}
		if pet, err := c.pets.GetByID(ctx, a.PetID); err == nil && pet != nil {
			event.PetName = pet.Name
		}

		if err := c.sink.Emit(ctx, event); err != nil {
			c.logger.Warn("Failed to send reminder",
				zap.String("appointment_id", a.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := c.ledger.MarkSent(ctx, key); err != nil {
			c.logger.Warn("Failed to record sent reminder",
				zap.String("appointment_id", a.ID.String()),
				zap.Error(err),
			)
		}
		sent++
	}

	return sent, nil
}

// Maintain expires ledger entries for past dates.
func (c *Checker) Maintain(ctx context.Context) {
	cutoff := model.DateOf(c.now())
	if err := c.ledger.ClearBefore(ctx, cutoff); err != nil {
		c.logger.Warn("Reminder ledger maintenance failed", zap.Error(err))
	}
}
