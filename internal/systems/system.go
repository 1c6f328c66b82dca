// Package systems holds the pluggable tabletop rule systems: each one owns a
// default die, a skill table, an ability modifier formula and a level-up rule,
// and composes character data into dice notation for the evaluator.
package systems

import (
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-roller/internal/dice"
	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

// DefaultRollNotation is used when a system definition names none
const DefaultRollNotation = "1d20"

// GameSystem is the capability set every rule system exposes
type GameSystem interface {
	Name() string
	DefaultRollNotation() string

	// Skills returns a copy of the skill table keyed by skill name
	Skills() map[string]*SkillDefinition

	// Skill looks a skill up ignoring case
	Skill(name string) (*SkillDefinition, bool)

	Modifier(score int) int
	IsLevelUp(c Character) bool

	// Roll evaluates expression, substituting the default notation when it
	// is blank and for bare modifiers
	Roll(expression string) ([]*dice.RollResult, error)

	// SkillCheck rolls the default die plus the character's score in the
	// skill plus the skill's ranks. Unknown skills roll the default die.
	SkillCheck(c Character, skill string) ([]*dice.RollResult, error)

	// AbilityCheck rolls the default die plus the modifier of the
	// character's stat. Unknown stats roll the default die.
	AbilityCheck(c Character, stat string) ([]*dice.RollResult, error)
}

// Config describes one rule system
type Config struct {
	Name        string
	DefaultRoll string
	Rules       Rules
	Skills      []*SkillDefinition
	Evaluator   *dice.Evaluator
}

// Validate ensures the system is usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("Name", c.Name, vb)
	if c.Evaluator == nil {
		vb.RequiredField("Evaluator")
	}

	if c.Evaluator != nil && strings.TrimSpace(c.DefaultRoll) != "" {
		if _, err := c.Evaluator.Parse(c.DefaultRoll); err != nil {
			vb.InvalidField("DefaultRoll", err.Error())
		}
	}

	seen := make(map[string]bool, len(c.Skills))
	for i, skill := range c.Skills {
		if skill == nil || strings.TrimSpace(skill.Name) == "" {
			vb.Fieldf("Skills", "skill %d has no name", i)
			continue
		}
		key := FoldName(skill.Name)
		if seen[key] {
			vb.Fieldf("Skills", "duplicate skill %q", skill.Name)
		}
		seen[key] = true
	}

	return vb.Build()
}

// System is the GameSystem implementation shared by every variant. Variants
// differ only in their Config: default die, Rules and skill table.
type System struct {
	name        string
	defaultRoll string
	rules       Rules
	skills      map[string]*SkillDefinition
	evaluator   *dice.Evaluator
}

// New creates a rule system. Skills are copied so the system never changes
// after construction.
func New(cfg *Config) (*System, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	defaultRoll := strings.TrimSpace(cfg.DefaultRoll)
	if defaultRoll == "" {
		defaultRoll = DefaultRollNotation
	}

	rules := cfg.Rules
	if rules == nil {
		rules = BaseRules{}
	}

	skills := make(map[string]*SkillDefinition, len(cfg.Skills))
	for _, skill := range cfg.Skills {
		skills[FoldName(skill.Name)] = copySkill(skill)
	}

	return &System{
		name:        cfg.Name,
		defaultRoll: defaultRoll,
		rules:       rules,
		skills:      skills,
		evaluator:   cfg.Evaluator,
	}, nil
}

// Name returns the system's registry name
func (s *System) Name() string {
	return s.name
}

// DefaultRollNotation returns the notation rolled for empty input
func (s *System) DefaultRollNotation() string {
	return s.defaultRoll
}

// Skills returns a copy of the skill table keyed by display name
func (s *System) Skills() map[string]*SkillDefinition {
	out := make(map[string]*SkillDefinition, len(s.skills))
	for _, skill := range s.skills {
		out[skill.Name] = copySkill(skill)
	}
	return out
}

// SkillNames returns the skill names in alphabetical order
func (s *System) SkillNames() []string {
	names := make([]string, 0, len(s.skills))
	for _, skill := range s.skills {
		names = append(names, skill.Name)
	}
	sort.Strings(names)
	return names
}

// Skill looks up a skill ignoring case
func (s *System) Skill(name string) (*SkillDefinition, bool) {
	skill, ok := s.skills[FoldName(name)]
	if !ok {
		return nil, false
	}
	return copySkill(skill), true
}

// Modifier delegates to the system's rules
func (s *System) Modifier(score int) int {
	return s.rules.Modifier(score)
}

// IsLevelUp delegates to the system's rules
func (s *System) IsLevelUp(c Character) bool {
	return s.rules.IsLevelUp(c)
}

// Roll evaluates expression against the system's default notation
func (s *System) Roll(expression string) ([]*dice.RollResult, error) {
	return s.evaluator.Evaluate(expression, s.defaultRoll)
}

// SkillCheck composes "<default>+<score>+<ranks>" and rolls it
func (s *System) SkillCheck(c Character, skill string) ([]*dice.RollResult, error) {
	def, ok := s.Skill(skill)
	if !ok || c == nil {
		return s.Roll("")
	}

	score, _ := c.SkillScore(def.Name)
	return s.Roll(composeNotation(s.defaultRoll, score, def.RankBonus()))
}

// AbilityCheck composes "<default>+<modifier(stat)>" and rolls it
func (s *System) AbilityCheck(c Character, stat string) ([]*dice.RollResult, error) {
	if c == nil {
		return s.Roll("")
	}
	score, ok := c.StatScore(stat)
	if !ok {
		return s.Roll("")
	}
	return s.Roll(composeNotation(s.defaultRoll, s.Modifier(score)))
}

// WithSkills returns a copy of the system using skills as its table
func (s *System) WithSkills(skills []*SkillDefinition) (*System, error) {
	return New(&Config{
		Name:        s.name,
		DefaultRoll: s.defaultRoll,
		Rules:       s.rules,
		Skills:      skills,
		Evaluator:   s.evaluator,
	})
}

// composeNotation appends each modifier with its own sign so a negative
// value renders as "-1" rather than "+-1".
func composeNotation(base string, modifiers ...int) string {
	var b strings.Builder
	b.WriteString(base)
	for _, m := range modifiers {
		if m >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(m))
	}
	return b.String()
}

func copySkill(skill *SkillDefinition) *SkillDefinition {
	out := *skill
	if skill.Ranks != nil {
		ranks := *skill.Ranks
		out.Ranks = &ranks
	}
	return &out
}
