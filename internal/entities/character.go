// Package entities provides core data structures for rpg-roller.
package entities

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

// EntityTypeCharacter is the core.Entity type of a Character
const EntityTypeCharacter = "character"

// Character is a player character as the chat bot tracks it
type Character struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Nickname   string `json:"nickname,omitempty"`
	PlayerID   string `json:"player_id"`
	CampaignID string `json:"campaign_id"`

	// System is the rule system the character is played under
	System string `json:"system,omitempty"`

	Level      int  `json:"level"`
	Experience int  `json:"experience"`
	Alive      bool `json:"alive"`
	HP         HP   `json:"hp"`

	Stats  map[string]int `json:"stats,omitempty"`
	Skills map[string]int `json:"skills,omitempty"`

	// Attributes are free-form facts such as race or alignment
	Attributes []Attribute `json:"attributes,omitempty"`
	Inventory  []string    `json:"inventory,omitempty"`

	Description string `json:"description,omitempty"`
	Theme       string `json:"theme,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HP tracks hit points
type HP struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Attribute is a keyed note on a character sheet. Display marks the ones
// shown on the character's profile.
type Attribute struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Display bool   `json:"display"`
}

// GetID returns the character ID
func (c *Character) GetID() string {
	return c.ID
}

// GetType returns the entity type
func (c *Character) GetType() string {
	return EntityTypeCharacter
}

// GetLevel returns the character level
func (c *Character) GetLevel() int {
	return c.Level
}

// GetExperience returns accumulated experience
func (c *Character) GetExperience() int {
	return c.Experience
}

// SkillScore looks up a skill score ignoring case
func (c *Character) SkillScore(name string) (int, bool) {
	return lookupFolded(c.Skills, name)
}

// StatScore looks up a stat score ignoring case
func (c *Character) StatScore(name string) (int, bool) {
	return lookupFolded(c.Stats, name)
}

// Attribute looks up an attribute by key ignoring case
func (c *Character) Attribute(key string) (Attribute, bool) {
	want := fold(key)
	for _, attr := range c.Attributes {
		if fold(attr.Key) == want {
			return attr, true
		}
	}
	return Attribute{}, false
}

// DisplayedAttributes returns the attributes marked for display, in order
func (c *Character) DisplayedAttributes() []Attribute {
	var shown []Attribute
	for _, attr := range c.Attributes {
		if attr.Display {
			shown = append(shown, attr)
		}
	}
	return shown
}

// MatchesName reports whether name equals the character's name or nickname,
// ignoring case
func (c *Character) MatchesName(name string) bool {
	key := fold(name)
	if key == "" {
		return false
	}
	return fold(c.Name) == key || (c.Nickname != "" && fold(c.Nickname) == key)
}

// Validate checks the record before it is stored
func (c *Character) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("name", c.Name, vb)
	errors.ValidateRequired("player_id", c.PlayerID, vb)
	errors.ValidateRequired("campaign_id", c.CampaignID, vb)

	if c.Level < 0 {
		vb.InvalidField("level", "must not be negative")
	}
	if c.Experience < 0 {
		vb.InvalidField("experience", "must not be negative")
	}
	if c.HP != (HP{}) {
		if c.HP.Max < 1 {
			vb.InvalidField("hp.max", "must be at least 1")
		}
		if c.HP.Current > c.HP.Max {
			vb.InvalidField("hp.current", "must not exceed hp.max")
		}
	}

	seen := make(map[string]bool, len(c.Attributes))
	for _, attr := range c.Attributes {
		key := fold(attr.Key)
		if key == "" {
			vb.InvalidField("attributes", "key must not be empty")
			continue
		}
		if seen[key] {
			vb.Fieldf("attributes", "duplicate key %q", attr.Key)
		}
		seen[key] = true
	}

	return vb.Build()
}

func lookupFolded(scores map[string]int, name string) (int, bool) {
	if v, ok := scores[name]; ok {
		return v, true
	}
	key := fold(name)
	for k, v := range scores {
		if fold(k) == key {
			return v, true
		}
	}
	return 0, false
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
