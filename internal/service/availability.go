package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/model"
	"go.uber.org/zap"
)

// DayAppointments is the slice of the appointment store availability
// checking needs.
type DayAppointments interface {
	ListByClinicDate(ctx context.Context, clinicID uuid.UUID, date model.CalendarDate) ([]*model.Appointment, error)
}

// AvailabilityChecker decides whether a candidate interval is free for a
// clinic on a date. Pending appointments count as occupied: the slot is
// provisionally reserved until approval or rejection.
type AvailabilityChecker struct {
	appointments DayAppointments
	logger       *zap.Logger
}

func NewAvailabilityChecker(appointments DayAppointments, logger *zap.Logger) *AvailabilityChecker {
	return &AvailabilityChecker{
		appointments: appointments,
		logger:       logger,
	}
}

// IsAvailable reports whether [startTime, endTime) on the given clinic/date
// overlaps no live appointment. exclude skips one appointment id, so
// approval and extension re-checks do not collide with the appointment
// being operated on; pass uuid.Nil to check all.
//
// A store read failure fails open: every slot is reported available rather
// than blocking all bookings on a transient error. The approval-time
// re-check is the conflict backstop, so the worst case is a pending request
// that later fails approval.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, clinicID uuid.UUID, date model.CalendarDate, startTime, endTime model.TimeOfDay, exclude uuid.UUID) bool {
	existing, err := c.appointments.ListByClinicDate(ctx, clinicID, date)
	if err != nil {
		c.logger.Warn("Availability check failed to read appointments, failing open",
			zap.String("clinic_id", clinicID.String()),
			zap.String("date", date.String()),
			zap.Error(err),
		)
		return true
	}

	candidateStart := date.At(startTime)
	candidateEnd := date.At(endTime)

	for _, a := range existing {
		if a.ID == exclude {
			continue
		}
		if !a.Status.Live() {
			continue
		}
		start, end, ok := a.EffectiveInterval()
		if !ok {
			continue
		}
		// Half-open overlap: [s1,e1) and [s2,e2) intersect iff s1<e2 && s2<e1.
		if start.Before(candidateEnd) && candidateStart.Before(end) {
			return false
		}
	}

	return true
}
