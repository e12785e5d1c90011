package models

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a drafting team in the system
type Team struct {
	ID        uuid.UUID `json:"id"`
	DraftID   uuid.UUID `json:"draft_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}
