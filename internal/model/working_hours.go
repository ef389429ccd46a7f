package model

import "github.com/google/uuid"

// Working-hours duration bounds, in minutes.
const (
	MinWorkingHoursDuration = 60
	MaxWorkingHoursDuration = 960
)

// WorkingHours is a clinic's daily open/close window. One row per clinic,
// upserted on change, never deleted; DefaultWorkingHours substitutes when a
// clinic has not configured hours yet.
type WorkingHours struct {
	ClinicID uuid.UUID `json:"clinic_id"`
	Start    TimeOfDay `json:"start"`
	End      TimeOfDay `json:"end"`
}

// DefaultWorkingHours returns the conventional 08:00–17:00 window.
func DefaultWorkingHours(clinicID uuid.UUID) WorkingHours {
	return WorkingHours{
		ClinicID: clinicID,
		Start:    8 * 60,
		End:      17 * 60,
	}
}

// Duration returns the window length in minutes.
func (w WorkingHours) Duration() int { return w.End.Minutes() - w.Start.Minutes() }
