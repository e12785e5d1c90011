package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a draftable player in the system
type Player struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Position  string    `json:"position"`
	Rank      int       `json:"rank"` // board rank used for auto-pick
	CreatedAt time.Time `json:"created_at"`
}
