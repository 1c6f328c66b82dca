package dice

import (
	"strings"
	"unicode"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

// splitTerms scans one sub-expression left to right and returns its terms,
// each prefixed with an explicit sign.
//
// Runs of signs fold together ("+-3" is "-3", "--3" is "+3"), a leading sign
// belongs to the first term, and whitespace is ignored.
func splitTerms(expression string) ([]string, error) {
	var (
		terms []string
		body  strings.Builder
		sign  = byte('+')
		seen  bool
	)

	for _, r := range expression {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '+' || r == '-':
			if body.Len() > 0 {
				terms = append(terms, string(sign)+body.String())
				body.Reset()
				sign = byte(r)
			} else {
				sign = foldSign(sign, byte(r))
			}
			seen = true
		default:
			body.WriteRune(r)
		}
	}

	if body.Len() == 0 {
		if seen {
			return nil, errors.NewParseError(expression, "missing term after sign")
		}
		return nil, errors.NewParseError(expression, "empty expression")
	}
	terms = append(terms, string(sign)+body.String())

	return terms, nil
}

func foldSign(current, next byte) byte {
	if current == next {
		return '+'
	}
	return '-'
}

// splitExpressions breaks a roll request into its comma-separated
// sub-expressions with surrounding whitespace trimmed.
func splitExpressions(expression string) []string {
	parts := strings.Split(expression, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
