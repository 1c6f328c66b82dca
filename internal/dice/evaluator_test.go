package dice

import (
	"sync"
	"testing"

	toolkitdice "github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

type EvaluatorTestSuite struct {
	suite.Suite
	roller    *fixedRoller
	evaluator *Evaluator
}

func (s *EvaluatorTestSuite) SetupTest() {
	s.roller = &fixedRoller{values: []int{4}}
	s.evaluator = NewEvaluator(s.roller)
}

func (s *EvaluatorTestSuite) TestMixedExpression() {
	s.roller.values = []int{3, 5, 2}

	results, err := s.evaluator.Evaluate("2d6+1d4-2", "1d20")
	s.Require().NoError(err)
	s.Require().Len(results, 1)

	result := results[0]
	s.Equal("2d6+1d4-2", result.Expression)
	s.Equal([]int{3, 5, 2, -2}, result.Outcomes)
	s.Equal(8, result.Total)
	s.Equal(-2, result.Modifier)
	s.Equal(10, result.DiceTotal())
}

func (s *EvaluatorTestSuite) TestCommaSeparatedKeepsOrder() {
	s.roller.values = []int{6, 1, 3}

	results, err := s.evaluator.Evaluate("1d6, 1d6 ,1d6+1", "1d20")
	s.Require().NoError(err)
	s.Require().Len(results, 3)

	s.Equal("1d6", results[0].Expression)
	s.Equal(6, results[0].Total)
	s.Equal("1d6", results[1].Expression)
	s.Equal(1, results[1].Total)
	s.Equal("1d6+1", results[2].Expression)
	s.Equal(4, results[2].Total)
}

func (s *EvaluatorTestSuite) TestEmptyExpressionUsesDefault() {
	s.roller.values = []int{17}

	for _, expr := range []string{"", "   "} {
		results, err := s.evaluator.Evaluate(expr, "1d20")
		s.Require().NoError(err)
		s.Require().Len(results, 1)
		s.Equal("1d20", results[0].Expression)
		s.Equal([]int{17}, results[0].Outcomes)
	}
}

func (s *EvaluatorTestSuite) TestBareModifierRollsDefaultDie() {
	testCases := []struct {
		expr       string
		expression string
		outcomes   []int
		modifier   int
	}{
		{expr: "+3", expression: "1d20+3", outcomes: []int{4, 3}, modifier: 3},
		{expr: "3", expression: "1d20+3", outcomes: []int{4, 3}, modifier: 3},
		{expr: "-2", expression: "1d20-2", outcomes: []int{4, -2}, modifier: -2},
	}

	for _, tc := range testCases {
		s.Run(tc.expr, func() {
			results, err := s.evaluator.Evaluate(tc.expr, "1d20")
			s.Require().NoError(err)
			s.Require().Len(results, 1)
			s.Equal(tc.expression, results[0].Expression)
			s.Equal(tc.outcomes, results[0].Outcomes)
			s.Equal(tc.modifier, results[0].Modifier)
		})
	}
}

func (s *EvaluatorTestSuite) TestBareModifierUsesSystemDefault() {
	s.roller.values = []int{42}

	results, err := s.evaluator.Evaluate("+5", "1d100")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal("1d100+5", results[0].Expression)
	s.Equal(47, results[0].Total)
}

func (s *EvaluatorTestSuite) TestLeadingMinusNegatesFirstTerm() {
	s.roller.values = []int{5, 2}

	results, err := s.evaluator.Evaluate("-1d6+1d4", "1d20")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal([]int{-5, 2}, results[0].Outcomes)
	s.Equal(-3, results[0].Total)
}

func (s *EvaluatorTestSuite) TestSignRunsFold() {
	testCases := map[string][]int{
		"1d6+-2": {4, -2},
		"1d6-+2": {4, -2},
		"1d6--2": {4, 2},
		"1d6++2": {4, 2},
	}

	for expr, outcomes := range testCases {
		s.Run(expr, func() {
			results, err := s.evaluator.Evaluate(expr, "1d20")
			s.Require().NoError(err)
			s.Equal(outcomes, results[0].Outcomes)
		})
	}
}

func (s *EvaluatorTestSuite) TestWhitespaceIsIgnored() {
	results, err := s.evaluator.Evaluate(" 2d6 + 3 ", "1d20")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal([]int{4, 4, 3}, results[0].Outcomes)
	s.Equal(11, results[0].Total)
}

func (s *EvaluatorTestSuite) TestParseErrorStopsEvaluation() {
	results, err := s.evaluator.Evaluate("1d6, 2d0, 1d8", "1d20")
	s.Require().Error(err)
	s.Nil(results)

	pe, ok := errors.AsParseError(err)
	s.Require().True(ok)
	s.Equal("+2d0", pe.Token)
	s.True(errors.IsInvalidArgument(err))
	s.Equal("2d0", errors.GetMeta(err)["expression"])
}

func (s *EvaluatorTestSuite) TestInvalidExpressions() {
	testCases := []struct {
		name   string
		expr   string
		reason string
	}{
		{name: "trailing sign", expr: "1d6+", reason: "missing term after sign"},
		{name: "empty sub-expression", expr: "1d6,,1d4", reason: "empty expression"},
		{name: "trailing comma", expr: "1d6,", reason: "empty expression"},
		{name: "garbage", expr: "fireball", reason: "modifier must be an integer"},
		{name: "zero dice", expr: "0d6", reason: "dice count must be at least 1"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.evaluator.Evaluate(tc.expr, "1d20")
			s.Require().Error(err)

			pe, ok := errors.AsParseError(err)
			s.Require().True(ok)
			s.Equal(tc.reason, pe.Reason)
		})
	}
}

func (s *EvaluatorTestSuite) TestTotalsStayInRange() {
	testCases := []struct {
		name   string
		expr   string
		token  string
		reason string
	}{
		{
			name:   "max int plus one",
			expr:   "9223372036854775807+1",
			token:  "+9223372036854775807",
			reason: "modifier is too large",
		},
		{
			name:   "modifier past int32",
			expr:   "1d1+3000000000",
			token:  "+3000000000",
			reason: "modifier is too large",
		},
		{
			name:   "dice past int32",
			expr:   "1000d1000000+1000d1000000+1000d1000000",
			token:  "1000d1000000+1000d1000000+1000d1000000",
			reason: "expression total is out of range",
		},
		{
			name:   "negative dice past int32",
			expr:   "-1000d1000000-1000d1000000-1000d1000000",
			token:  "-1000d1000000-1000d1000000-1000d1000000",
			reason: "expression total is out of range",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			results, err := s.evaluator.Evaluate(tc.expr, "1d20")
			s.Require().Error(err)
			s.Nil(results)

			pe, ok := errors.AsParseError(err)
			s.Require().True(ok)
			s.Equal(tc.token, pe.Token)
			s.Equal(tc.reason, pe.Reason)
			s.True(errors.IsInvalidArgument(err))
		})
	}
	s.Zero(s.roller.calls)
}

func (s *EvaluatorTestSuite) TestLargestAllowedTotal() {
	s.roller.values = []int{MaxFaces}

	results, err := s.evaluator.Evaluate("1000d1000000+1000d1000000+1000000", "1d20")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(2*MaxDiceCount*MaxFaces+MaxModifier, results[0].Total)
	s.LessOrEqual(results[0].Total, MaxTotal)
}

func (s *EvaluatorTestSuite) TestInvalidDefaultNotation() {
	_, err := s.evaluator.Evaluate("+3", "1d")
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *EvaluatorTestSuite) TestParse() {
	terms, err := s.evaluator.Parse("2d6-1d4+3")
	s.Require().NoError(err)
	s.Require().Len(terms, 3)

	s.Equal(TermKindDie, terms[0].Kind)
	s.Equal(1, terms[0].Sign)
	s.Equal(TermKindDie, terms[1].Kind)
	s.Equal(-1, terms[1].Sign)
	s.Equal(TermKindModifier, terms[2].Kind)
	s.Equal(3, terms[2].Value)
	s.Zero(s.roller.calls)
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func TestEvaluator_DefaultRollerBounds(t *testing.T) {
	evaluator := NewEvaluator(nil)

	testCases := []struct {
		expr string
		min  int
		max  int
	}{
		{expr: "1d20", min: 1, max: 20},
		{expr: "3d6", min: 3, max: 18},
		{expr: "2d6+1d4-2", min: 1, max: 14},
		{expr: "-1d8", min: -8, max: -1},
		{expr: "d1", min: 1, max: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.expr, func(t *testing.T) {
			terms, err := evaluator.Parse(tc.expr)
			require.NoError(t, err)

			for i := 0; i < 200; i++ {
				results, err := evaluator.Evaluate(tc.expr, "1d20")
				require.NoError(t, err)
				require.Len(t, results, 1)

				result := results[0]
				assert.GreaterOrEqual(t, result.Total, tc.min)
				assert.LessOrEqual(t, result.Total, tc.max)

				sum := 0
				for _, o := range result.Outcomes {
					sum += o
				}
				assert.Equal(t, sum, result.Total)

				expected := 0
				for _, term := range terms {
					if term.Kind == TermKindDie {
						expected += term.Count
					} else {
						expected++
					}
				}
				assert.Len(t, result.Outcomes, expected)
			}
		})
	}
}

func TestNewEvaluator_DefaultsRoller(t *testing.T) {
	evaluator := NewEvaluator(nil)
	assert.Equal(t, toolkitdice.DefaultRoller, evaluator.roller)
}

func TestRollResult_String(t *testing.T) {
	result := NewRollResult("2d6+3", []int{4, 5, 3}, 3)
	assert.Equal(t, "2d6+3 → [4 5 3] = 12", result.String())
	assert.Equal(t, 9, result.DiceTotal())
}

func TestEvaluator_ConcurrentUse(t *testing.T) {
	evaluator := NewEvaluator(nil)

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				results, err := evaluator.Evaluate("2d6+1d4-2, +3", "1d20")
				if !assert.NoError(t, err) {
					return
				}
				if !assert.Len(t, results, 2) {
					return
				}

				assert.Len(t, results[0].Outcomes, 4)
				assert.Len(t, results[1].Outcomes, 2)
				for _, result := range results {
					sum := 0
					for _, o := range result.Outcomes {
						sum += o
					}
					assert.Equal(t, sum, result.Total)
				}
				assert.Equal(t, "1d20+3", results[1].Expression)
			}
		}()
	}
	wg.Wait()
}
