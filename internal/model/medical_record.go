package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is issued by the clinic against a completed appointment.
type MedicalRecord struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	ClinicID      uuid.UUID `json:"clinic_id"`
	PetID         uuid.UUID `json:"pet_id"`
	Diagnosis     string    `json:"diagnosis"`
	Treatment     string    `json:"treatment"`
	Prescriptions string    `json:"prescriptions"`
	CreatedAt     time.Time `json:"created_at"`
}
