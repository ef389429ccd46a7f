package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/model"
)

// Transition is a status change the sweep decided on; the caller persists it.
type Transition struct {
	AppointmentID uuid.UUID
	From          model.AppointmentStatus
	To            model.AppointmentStatus
}

// Sweep returns the completed-transition for every confirmed appointment
// whose effective end instant is strictly before now. Pure and idempotent:
// appointments already promoted produce nothing on a second pass, so the
// caller may persist transitions independently and simply rerun on failure.
func Sweep(appointments []*model.Appointment, now time.Time) []Transition {
	var transitions []Transition
	for _, a := range appointments {
		if a.Status != model.AppointmentStatusConfirmed {
			continue
		}
		_, end, ok := a.EffectiveInterval()
		if !ok {
			continue
		}
		if end.Before(now) {
			transitions = append(transitions, Transition{
				AppointmentID: a.ID,
				From:          a.Status,
				To:            model.AppointmentStatusCompleted,
			})
		}
	}
	return transitions
}
