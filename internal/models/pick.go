package models

import (
	"time"

	"github.com/google/uuid"
)

// Pick represents a single draft selection slot owned by a team,
// optionally filled with a player.
type Pick struct {
	ID          uuid.UUID  `json:"id"`
	DraftID     uuid.UUID  `json:"draft_id"`
	Round       int        `json:"round"`
	Pick        int        `json:"pick"`         // pick number in the round
	OverallPick int        `json:"overall_pick"` // pick number overall
	TeamID      uuid.UUID  `json:"team_id"`
	PlayerID    *uuid.UUID `json:"player_id,omitempty"` // nil until picked
	PickedAt    *time.Time `json:"picked_at,omitempty"`
}

// IsPicked reports whether a player has been assigned to this slot.
func (p *Pick) IsPicked() bool {
	return p.PlayerID != nil
}
