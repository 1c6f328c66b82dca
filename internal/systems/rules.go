package systems

import (
	"sort"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

// Rules are the hooks a rule system may override
type Rules interface {
	// Modifier converts an ability score into a roll modifier
	Modifier(score int) int

	// IsLevelUp reports whether the character has earned its next level
	IsLevelUp(c Character) bool
}

// Rule set names accepted in system definitions
const (
	RulesBase       = "base"
	RulesDnD5e      = "dnd5e"
	RulesPathfinder = "pathfinder"
)

// BaseRules is the default behavior: scores are used as-is and characters
// never level up from experience.
type BaseRules struct{}

// Modifier returns score unchanged
func (BaseRules) Modifier(score int) int {
	return score
}

// IsLevelUp always returns false
func (BaseRules) IsLevelUp(Character) bool {
	return false
}

// ThresholdRules levels characters up when their experience reaches the
// threshold of the next level, using the (score-10)/2 ability modifier
// rounded toward negative infinity.
type ThresholdRules struct {
	// Thresholds[i] is the experience needed to reach level i+1
	Thresholds []int
}

// Modifier returns floor((score-10)/2)
func (ThresholdRules) Modifier(score int) int {
	return floorDiv(score-10, 2)
}

// IsLevelUp compares experience against the next level's threshold
func (r ThresholdRules) IsLevelUp(c Character) bool {
	if c == nil {
		return false
	}
	level := c.GetLevel()
	if level < 1 || level >= len(r.Thresholds) {
		return false
	}
	return c.GetExperience() >= r.Thresholds[level]
}

// DnD5eRules uses the fifth edition advancement table, levels 1 to 20
var DnD5eRules = ThresholdRules{Thresholds: []int{
	0, 300, 900, 2700, 6500,
	14000, 23000, 34000, 48000, 64000,
	85000, 100000, 120000, 140000, 165000,
	195000, 225000, 265000, 305000, 355000,
}}

// PathfinderRules uses the medium advancement track, levels 1 to 20
var PathfinderRules = ThresholdRules{Thresholds: []int{
	0, 2000, 5000, 9000, 15000,
	23000, 35000, 51000, 75000, 105000,
	155000, 220000, 315000, 445000, 635000,
	890000, 1300000, 1800000, 2550000, 3600000,
}}

var rulesByName = map[string]Rules{
	"":              BaseRules{},
	RulesBase:       BaseRules{},
	RulesDnD5e:      DnD5eRules,
	RulesPathfinder: PathfinderRules,
}

// RulesByName resolves a rule set named in a system definition
func RulesByName(name string) (Rules, error) {
	rules, ok := rulesByName[FoldName(name)]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown rule set %q", name).
			WithMeta("valid", RuleSetNames())
	}
	return rules, nil
}

// RuleSetNames lists the accepted rule set names
func RuleSetNames() []string {
	names := make([]string, 0, len(rulesByName))
	for name := range rulesByName {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
