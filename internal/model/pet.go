package model

import (
	"time"

	"github.com/google/uuid"
)

type Pet struct {
	ID        uuid.UUID    `json:"id"`
	OwnerID   uuid.UUID    `json:"owner_id"`
	Name      string       `json:"name"`
	Species   string       `json:"species"`
	Breed     string       `json:"breed"`
	BirthDate CalendarDate `json:"birth_date,omitzero"`
	Notes     string       `json:"notes"`
	CreatedAt time.Time    `json:"created_at"`
}
