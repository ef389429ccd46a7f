package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is a pet owner's rating of a completed appointment.
// At most one review per appointment; Appointment.HasReview is the guard.
type Review struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	ClinicID      uuid.UUID `json:"clinic_id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}
