package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRolePetOwner    UserRole = "pet_owner"
	UserRoleClinicOwner UserRole = "clinic_owner"
)

// User mirrors the identity provider's account record. Authentication itself
// is external; this table only carries what notifications and ownership
// checks need, including an optional linked Telegram chat.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           UserRole  `json:"role"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
