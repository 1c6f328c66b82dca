// Package rollsession stores short-lived roll history grouped by entity and context
package rollsession

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=rollsessionmock github.com/KirkDiggler/rpg-roller/internal/repositories/roll_session Repository

// Repository defines the interface for roll session persistence
type Repository interface {
	// Create stores a new session, replacing any existing one
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get returns errors.NotFound when the session is missing or expired
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces a session keeping its original expiry
	Update(ctx context.Context, session *RollSession) error

	// Delete removes a session and reports how many rolls it held
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// Kinds of roll recorded in a session
const (
	KindRoll         = "roll"
	KindSkillCheck   = "skill_check"
	KindAbilityCheck = "ability_check"
)

// RollSession is the roll history of one entity within one context, e.g. a
// character's rolls during "combat_round_1"
type RollSession struct {
	EntityID  string       `json:"entity_id"`
	Context   string       `json:"context"`
	Rolls     []RollRecord `json:"rolls"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// RollRecord is one evaluated sub-expression
type RollRecord struct {
	RollID     string `json:"roll_id"`
	System     string `json:"system"`
	Kind       string `json:"kind"`
	Expression string `json:"expression"`
	Outcomes   []int  `json:"outcomes"`
	Total      int    `json:"total"`
	Modifier   int    `json:"modifier"`

	// Description is free text such as "Stealth check"
	Description string    `json:"description,omitempty"`
	RolledAt    time.Time `json:"rolled_at"`
}

// DiceTotal is the part of Total that came from dice
func (r RollRecord) DiceTotal() int {
	return r.Total - r.Modifier
}

// CreateInput contains parameters for creating a roll session
type CreateInput struct {
	EntityID string
	Context  string
	Rolls    []RollRecord
	TTL      time.Duration
}

// CreateOutput contains the created session
type CreateOutput struct {
	Session *RollSession
}

// GetInput identifies a session
type GetInput struct {
	EntityID string
	Context  string
}

// GetOutput contains the session
type GetOutput struct {
	Session *RollSession
}

// DeleteInput identifies a session
type DeleteInput struct {
	EntityID string
	Context  string
}

// DeleteOutput reports what was removed
type DeleteOutput struct {
	RollsDeleted int
}
