package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

func TestThresholdRules_Modifier(t *testing.T) {
	testCases := map[int]int{
		1:  -5,
		3:  -4,
		8:  -1,
		9:  -1,
		10: 0,
		11: 0,
		12: 1,
		15: 2,
		20: 5,
		30: 10,
	}

	for score, expected := range testCases {
		assert.Equal(t, expected, DnD5eRules.Modifier(score), "score %d", score)
	}
}

func TestThresholdRules_IsLevelUp(t *testing.T) {
	testCases := []struct {
		name       string
		rules      ThresholdRules
		level      int
		experience int
		expected   bool
	}{
		{name: "5e level 1 below threshold", rules: DnD5eRules, level: 1, experience: 299, expected: false},
		{name: "5e level 1 at threshold", rules: DnD5eRules, level: 1, experience: 300, expected: true},
		{name: "5e level 4 past threshold", rules: DnD5eRules, level: 4, experience: 7000, expected: true},
		{name: "5e level 5 short", rules: DnD5eRules, level: 5, experience: 13999, expected: false},
		{name: "5e max level never", rules: DnD5eRules, level: 20, experience: 1000000, expected: false},
		{name: "invalid level", rules: DnD5eRules, level: 0, experience: 1000, expected: false},
		{name: "pathfinder level 1", rules: PathfinderRules, level: 1, experience: 2000, expected: true},
		{name: "pathfinder level 2 short", rules: PathfinderRules, level: 2, experience: 4999, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &testCharacter{level: tc.level, experience: tc.experience}
			assert.Equal(t, tc.expected, tc.rules.IsLevelUp(c))
		})
	}

	assert.False(t, DnD5eRules.IsLevelUp(nil))
	assert.Len(t, DnD5eRules.Thresholds, 20)
	assert.Len(t, PathfinderRules.Thresholds, 20)
}

func TestRulesByName(t *testing.T) {
	rules, err := RulesByName("DnD5e")
	require.NoError(t, err)
	assert.Equal(t, 2, rules.Modifier(14))

	rules, err = RulesByName("")
	require.NoError(t, err)
	assert.Equal(t, BaseRules{}, rules)

	_, err = RulesByName("gurps")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Equal(t, []string{RulesBase, RulesDnD5e, RulesPathfinder}, RuleSetNames())
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, -1, floorDiv(-1, 2))
	assert.Equal(t, -2, floorDiv(-3, 2))
	assert.Equal(t, -2, floorDiv(-4, 2))
	assert.Equal(t, 1, floorDiv(3, 2))
	assert.Equal(t, 0, floorDiv(0, 2))
}
