// Package schedule holds the pure scheduling logic: deriving bookable slots
// from working hours, interval overlap, and lifecycle sweeping. Nothing here
// does I/O; the service layer supplies data and persists outcomes.
package schedule

import (
	"fmt"

	"github.com/vetdesk/vetdesk/internal/model"
)

// DefaultSlotMinutes is the current booking policy: one-hour slots.
const DefaultSlotMinutes = 60

// Slot is a candidate bookable interval derived from working hours.
// Not persisted; regenerated on demand.
type Slot struct {
	Start model.TimeOfDay `json:"start_time"`
	End   model.TimeOfDay `json:"end_time"`
	Label string          `json:"label"`
}

// GenerateSlots tiles the working-hours window with fixed-length slots,
// ascending by start time, no gaps, no overlap. A trailing partial period
// shorter than the interval is dropped. Empty when the window is shorter
// than one interval.
func GenerateSlots(hours model.WorkingHours, intervalMinutes int) []Slot {
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultSlotMinutes
	}

	var slots []Slot
	for cursor := hours.Start; !hours.End.Before(cursor.Add(intervalMinutes)); cursor = cursor.Add(intervalMinutes) {
		end := cursor.Add(intervalMinutes)
		slots = append(slots, Slot{
			Start: cursor,
			End:   end,
			Label: fmt.Sprintf("%s - %s", cursor, end),
		})
	}
	return slots
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect.
func Overlaps(s1, e1, s2, e2 model.TimeOfDay) bool {
	return s1.Before(e2) && s2.Before(e1)
}
