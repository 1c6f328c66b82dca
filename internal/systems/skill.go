package systems

import (
	"strings"

	"golang.org/x/text/cases"
)

// SkillDefinition is one entry of a rule system's skill table
type SkillDefinition struct {
	Name string `yaml:"name"`

	// Ranks is the system's flat bonus for the skill, nil when the system
	// grants none
	Ranks *int `yaml:"ranks,omitempty"`

	// GoverningStat names the ability score the skill keys off, if any
	GoverningStat string `yaml:"stat,omitempty"`
}

// RankBonus returns Ranks or 0 when unset
func (d *SkillDefinition) RankBonus() int {
	if d == nil || d.Ranks == nil {
		return 0
	}
	return *d.Ranks
}

// FoldName normalizes a skill or stat name for case-insensitive lookup.
// A cases.Caser keeps state, so each call gets its own.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
