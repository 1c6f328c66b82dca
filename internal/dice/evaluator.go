// Package dice parses and evaluates free-form dice notation such as
// "2d6+3" or "d20-1, d20+1".
package dice

import (
	"strings"

	toolkitdice "github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

// Evaluator turns notation strings into roll results.
//
// An Evaluator holds no mutable state; it is safe for concurrent use as long
// as its roller is. The rpg-toolkit default roller is crypto-backed and safe.
type Evaluator struct {
	roller toolkitdice.Roller
}

// NewEvaluator creates an evaluator drawing from roller. A nil roller uses
// the rpg-toolkit default roller.
func NewEvaluator(roller toolkitdice.Roller) *Evaluator {
	if roller == nil {
		roller = toolkitdice.DefaultRoller
	}
	return &Evaluator{roller: roller}
}

// Evaluate rolls every comma-separated sub-expression of expression and
// returns one result per sub-expression in input order.
//
// An empty expression rolls defaultNotation. A sub-expression made of a single
// modifier term ("+3") is rolled on top of defaultNotation. Evaluation stops at
// the first sub-expression that fails to parse.
func (e *Evaluator) Evaluate(expression, defaultNotation string) ([]*RollResult, error) {
	if strings.TrimSpace(expression) == "" {
		expression = defaultNotation
	}

	subs := splitExpressions(expression)
	results := make([]*RollResult, 0, len(subs))
	for _, sub := range subs {
		result, err := e.evaluateOne(sub, defaultNotation)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to evaluate %q", sub).
				WithMeta("expression", sub)
		}
		results = append(results, result)
	}

	return results, nil
}

// Parse parses a single sub-expression into its terms without rolling
func (e *Evaluator) Parse(expression string) ([]*Term, error) {
	tokens, err := splitTerms(expression)
	if err != nil {
		return nil, err
	}

	terms := make([]*Term, 0, len(tokens))
	for _, token := range tokens {
		term, err := ParseTerm(token)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func (e *Evaluator) evaluateOne(expression, defaultNotation string) (*RollResult, error) {
	terms, err := e.Parse(expression)
	if err != nil {
		return nil, err
	}

	if len(terms) == 1 && terms[0].Kind == TermKindModifier {
		defaults, err := e.Parse(defaultNotation)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid default notation %q", defaultNotation)
		}
		terms = append(defaults, terms[0])
		expression = withDefaultDie(defaultNotation, expression)
	}

	if err := checkReach(expression, terms); err != nil {
		return nil, err
	}

	var (
		outcomes []int
		modifier int
	)
	for _, term := range terms {
		rolled, err := term.Roll(e.roller)
		if err != nil {
			return nil, err
		}
		if term.Kind == TermKindModifier {
			modifier += rolled[0]
		}
		outcomes = append(outcomes, rolled...)
	}

	return NewRollResult(expression, outcomes, modifier), nil
}

// checkReach rejects expressions whose total could leave [-MaxTotal, MaxTotal]
func checkReach(expression string, terms []*Term) error {
	reach := 0
	for _, term := range terms {
		if term.reach() > MaxTotal-reach {
			return errors.NewParseError(expression, "expression total is out of range")
		}
		reach += term.reach()
	}
	return nil
}

// withDefaultDie prefixes a bare modifier with the default notation, reusing
// the modifier's own sign when it has one.
func withDefaultDie(defaultNotation, modifier string) string {
	if strings.HasPrefix(modifier, "+") || strings.HasPrefix(modifier, "-") {
		return defaultNotation + modifier
	}
	return defaultNotation + "+" + modifier
}
