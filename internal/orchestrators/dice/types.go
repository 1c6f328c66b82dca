package dice

import (
	"time"

	"github.com/KirkDiggler/rpg-roller/internal/dice"
	rollsession "github.com/KirkDiggler/rpg-roller/internal/repositories/roll_session"
)

// RollInput defines the request for rolling free-form notation
type RollInput struct {
	EntityID string
	Context  string

	// System names the rule system; empty uses the configured default
	System string

	// Notation may be empty, which rolls the system's default die
	Notation    string
	Description string
	TTL         time.Duration
}

// RollOutput is shared by every operation that rolls dice
type RollOutput struct {
	System  string
	Results []*dice.RollResult

	// Rolls are the session records written for Results, in the same order
	Rolls   []rollsession.RollRecord
	Session *rollsession.RollSession
}

// SkillCheckInput defines the request for a skill check
type SkillCheckInput struct {
	CharacterID string
	Context     string

	// System overrides the character's own rule system
	System string
	Skill  string
}

// AbilityCheckInput defines the request for an ability check
type AbilityCheckInput struct {
	CharacterID string
	Context     string
	System      string
	Stat        string
}

// CheckLevelUpInput defines the request for a level-up check
type CheckLevelUpInput struct {
	CharacterID string
	System      string
}

// CheckLevelUpOutput reports whether the character can level up
type CheckLevelUpOutput struct {
	System     string
	Ready      bool
	Level      int
	Experience int
}

// GetRollSessionInput defines the request for getting a roll session
type GetRollSessionInput struct {
	EntityID string
	Context  string
}

// GetRollSessionOutput defines the response for getting a roll session
type GetRollSessionOutput struct {
	Session *rollsession.RollSession
}

// ClearRollSessionInput defines the request for clearing a roll session
type ClearRollSessionInput struct {
	EntityID string
	Context  string
}

// ClearRollSessionOutput defines the response for clearing a roll session
type ClearRollSessionOutput struct {
	RollsDeleted int
}
