// Package notify decouples the coordinators from notification delivery.
// Coordinators emit events synchronously after a successful state
// transition; the sink decides how (and whether) to deliver. Emission
// failures are logged by the caller and never unwind the transition.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/model"
)

type Kind string

const (
	KindNewBooking           Kind = "new_booking"
	KindBookingConfirmed     Kind = "booking_confirmed"
	KindBookingRejected      Kind = "booking_rejected"
	KindAppointmentExtended  Kind = "appointment_extended"
	KindAppointmentCompleted Kind = "appointment_completed"
	KindAppointmentReminder  Kind = "appointment_reminder"
)

// Event carries the context a delivery mechanism needs to render a message.
type Event struct {
	Kind          Kind
	ToUserID      uuid.UUID
	AppointmentID uuid.UUID
	ClinicName    string
	PetName       string
	Date          model.CalendarDate
	Start         model.TimeOfDay
	End           model.TimeOfDay
	Service       string
}

// EventSink delivers a single event. Implementations own retries and
// formatting.
type EventSink interface {
	Emit(ctx context.Context, event Event) error
}

// Message renders the default human-readable text for an event.
func (e Event) Message() string {
	when := fmt.Sprintf("%s, %s-%s", e.Date, e.Start, e.End)

	switch e.Kind {
	case KindNewBooking:
		return fmt.Sprintf("🐾 New booking request: %s at %s on %s (%s)", e.PetName, e.ClinicName, when, e.Service)
	case KindBookingConfirmed:
		return fmt.Sprintf("✅ Your appointment for %s at %s on %s is confirmed", e.PetName, e.ClinicName, when)
	case KindBookingRejected:
		return fmt.Sprintf("❌ Your appointment request for %s at %s on %s was declined", e.PetName, e.ClinicName, when)
	case KindAppointmentExtended:
		return fmt.Sprintf("🕐 Your appointment for %s at %s was extended to %s", e.PetName, e.ClinicName, e.End)
	case KindAppointmentCompleted:
		return fmt.Sprintf("🏁 The visit of %s at %s on %s is complete", e.PetName, e.ClinicName, e.Date)
	case KindAppointmentReminder:
		return fmt.Sprintf("⏰ Reminder: %s has an appointment at %s on %s", e.PetName, e.ClinicName, when)
	default:
		return fmt.Sprintf("Update for your appointment at %s on %s", e.ClinicName, when)
	}
}
