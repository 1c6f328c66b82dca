package dice

import (
	"math"
	"strconv"
	"strings"

	toolkitdice "github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

const (
	// MaxDiceCount caps the number of dice a single term may roll
	MaxDiceCount = 1000

	// MaxFaces caps the size of a single die
	MaxFaces = 1000000

	// MaxModifier caps the magnitude of a flat modifier term
	MaxModifier = 1000000

	// MaxTotal bounds how far from zero one sub-expression may reach, so
	// every total fits a 32-bit integer
	MaxTotal = math.MaxInt32
)

// TermKind classifies one additive term of a dice expression
type TermKind int

const (
	// TermKindDie is a "[count]d<faces>" term
	TermKindDie TermKind = iota
	// TermKindModifier is a flat integer term
	TermKindModifier
)

// String returns the kind name
func (k TermKind) String() string {
	switch k {
	case TermKindDie:
		return "die"
	case TermKindModifier:
		return "modifier"
	default:
		return "unknown"
	}
}

// Term is one parsed additive component of a notation string.
//
// Count and Faces are only meaningful for die terms, Value only for
// modifier terms. Sign is always +1 or -1.
type Term struct {
	Kind  TermKind
	Count int
	Faces int
	Value int
	Sign  int

	// Raw is the token the term was parsed from
	Raw string
}

// ParseTerm parses a single signed token such as "2d6", "-d4", "+3" or "-1".
// The token must not contain '+' or '-' past its leading sign.
func ParseTerm(token string) (*Term, error) {
	body := strings.TrimSpace(token)

	sign := 1
	if body != "" && (body[0] == '+' || body[0] == '-') {
		if body[0] == '-' {
			sign = -1
		}
		body = body[1:]
	}

	if body == "" {
		return nil, errors.NewParseError(token, "empty term")
	}

	delim := strings.IndexAny(body, "dD")
	if delim < 0 {
		value, ok := parseNatural(body)
		if !ok {
			return nil, errors.NewParseError(token, "modifier must be an integer")
		}
		if value > MaxModifier {
			return nil, errors.NewParseError(token, "modifier is too large")
		}
		return &Term{
			Kind:  TermKindModifier,
			Value: value,
			Sign:  sign,
			Raw:   token,
		}, nil
	}

	count := 1
	if countPart := body[:delim]; countPart != "" {
		var ok bool
		count, ok = parseNatural(countPart)
		if !ok {
			return nil, errors.NewParseError(token, "dice count must be a positive integer")
		}
		if count < 1 {
			return nil, errors.NewParseError(token, "dice count must be at least 1")
		}
		if count > MaxDiceCount {
			return nil, errors.NewParseError(token, "too many dice in one term")
		}
	}

	facesPart := body[delim+1:]
	if facesPart == "" {
		return nil, errors.NewParseError(token, "missing face count")
	}
	faces, ok := parseNatural(facesPart)
	if !ok {
		return nil, errors.NewParseError(token, "face count must be a positive integer")
	}
	if faces < 1 {
		return nil, errors.NewParseError(token, "face count must be at least 1")
	}
	if faces > MaxFaces {
		return nil, errors.NewParseError(token, "face count is too large")
	}

	return &Term{
		Kind:  TermKindDie,
		Count: count,
		Faces: faces,
		Sign:  sign,
		Raw:   token,
	}, nil
}

// parseNatural accepts only ASCII digits; signs and spaces are rejected
func parseNatural(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Roll produces the term's outcomes.
//
// A die term yields Count draws in [1, Faces], each multiplied by Sign, so
// "-2d4" gives two negative outcomes rather than one negated sum. A modifier
// term yields exactly one outcome, Sign*Value.
func (t *Term) Roll(roller toolkitdice.Roller) ([]int, error) {
	if t.Kind == TermKindModifier {
		return []int{t.Sign * t.Value}, nil
	}

	draws, err := roller.RollN(t.Count, t.Faces)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %s", t)
	}

	outcomes := make([]int, len(draws))
	for i, draw := range draws {
		outcomes[i] = t.Sign * draw
	}
	return outcomes, nil
}

// Min returns the lowest total the term can produce
func (t *Term) Min() int {
	if t.Kind == TermKindModifier {
		return t.Sign * t.Value
	}
	if t.Sign < 0 {
		return -t.Count * t.Faces
	}
	return t.Count
}

// Max returns the highest total the term can produce
func (t *Term) Max() int {
	if t.Kind == TermKindModifier {
		return t.Sign * t.Value
	}
	if t.Sign < 0 {
		return -t.Count
	}
	return t.Count * t.Faces
}

// reach is the largest magnitude the term can contribute to a total
func (t *Term) reach() int {
	if t.Kind == TermKindModifier {
		return t.Value
	}
	return t.Count * t.Faces
}

// String renders the term in canonical signed notation, e.g. "+2d6" or "-3"
func (t *Term) String() string {
	sign := "+"
	if t.Sign < 0 {
		sign = "-"
	}
	if t.Kind == TermKindModifier {
		return sign + strconv.Itoa(t.Value)
	}
	return sign + strconv.Itoa(t.Count) + "d" + strconv.Itoa(t.Faces)
}
