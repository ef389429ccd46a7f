package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
)

// Live reports whether the appointment still reserves its slot.
// A pending appointment blocks the interval until it is approved or rejected.
func (s AppointmentStatus) Live() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// LegacyDuration is assumed for records that carry only a combined
// scheduled_at instant and no explicit end time.
const LegacyDuration = time.Hour

// Appointment is the central entity. Two date representations coexist:
// newer records carry Date + StartTime/EndTime, older ones a single
// ScheduledAt instant. EffectiveInterval and Occurrence are the only
// supported ways to ask "when does this appointment happen".
type Appointment struct {
	ID          uuid.UUID         `json:"id"`
	ClinicID    uuid.UUID         `json:"clinic_id"`
	OwnerID     uuid.UUID         `json:"owner_id"`
	PetID       uuid.UUID         `json:"pet_id"`
	Date        CalendarDate      `json:"date,omitzero"`
	StartTime   TimeOfDay         `json:"start_time"`
	EndTime     TimeOfDay         `json:"end_time"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
	Status      AppointmentStatus `json:"status"`
	Reason      string            `json:"reason"`
	Service     string            `json:"service"`
	Notes       string            `json:"notes"`
	ClinicNotes string            `json:"clinic_notes,omitempty"`
	HasReview   bool              `json:"has_review"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SlotBased reports whether the appointment uses the date+start/end form.
func (a *Appointment) SlotBased() bool { return !a.Date.IsZero() }

// EffectiveInterval resolves either date representation to the half-open
// [start, end) instant pair the appointment occupies. ok is false when the
// record carries neither representation.
func (a *Appointment) EffectiveInterval() (start, end time.Time, ok bool) {
	switch {
	case a.SlotBased():
		return a.Date.At(a.StartTime), a.Date.At(a.EndTime), true
	case a.ScheduledAt != nil:
		return *a.ScheduledAt, a.ScheduledAt.Add(LegacyDuration), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Occurrence resolves either representation to a calendar date plus
// start/end times of day. Legacy instants get the assumed one-hour span.
func (a *Appointment) Occurrence() (date CalendarDate, startTime, endTime TimeOfDay, ok bool) {
	start, end, ok := a.EffectiveInterval()
	if !ok {
		return CalendarDate{}, 0, 0, false
	}
	date = DateOf(start)
	startTime = TimeOfDay(start.UTC().Hour()*60 + start.UTC().Minute())
	endTime = startTime.Add(int(end.Sub(start) / time.Minute))
	return date, startTime, endTime, true
}
