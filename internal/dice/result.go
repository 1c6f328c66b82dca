package dice

import "fmt"

// RollResult is the outcome of evaluating one sub-expression.
//
// Total always equals the sum of Outcomes. Modifier is the part of Total
// contributed by flat modifier terms.
type RollResult struct {
	// Expression is the notation that was rolled, rewritten when a bare
	// modifier was resolved against the default die
	Expression string

	// Outcomes holds every die draw and modifier value in term order
	Outcomes []int

	Total    int
	Modifier int
}

// NewRollResult builds a result and computes its total
func NewRollResult(expression string, outcomes []int, modifier int) *RollResult {
	total := 0
	for _, o := range outcomes {
		total += o
	}
	return &RollResult{
		Expression: expression,
		Outcomes:   outcomes,
		Total:      total,
		Modifier:   modifier,
	}
}

// DiceTotal is the total contributed by dice alone
func (r *RollResult) DiceTotal() int {
	return r.Total - r.Modifier
}

// String renders the result as "2d6+3 → [4 5 3] = 12"
func (r *RollResult) String() string {
	return fmt.Sprintf("%s → %v = %d", r.Expression, r.Outcomes, r.Total)
}
