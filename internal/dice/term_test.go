package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

// fixedRoller returns the queued values in order, cycling when exhausted
type fixedRoller struct {
	values []int
	next   int
	calls  int
}

func (r *fixedRoller) Roll(_ int) (int, error) {
	r.calls++
	v := r.values[r.next%len(r.values)]
	r.next++
	return v, nil
}

func (r *fixedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, _ := r.Roll(size)
		out[i] = v
	}
	return out, nil
}

func TestParseTerm(t *testing.T) {
	testCases := []struct {
		token string
		kind  TermKind
		count int
		faces int
		value int
		sign  int
	}{
		{token: "2d6", kind: TermKindDie, count: 2, faces: 6, sign: 1},
		{token: "d20", kind: TermKindDie, count: 1, faces: 20, sign: 1},
		{token: "+1D8", kind: TermKindDie, count: 1, faces: 8, sign: 1},
		{token: "-3d4", kind: TermKindDie, count: 3, faces: 4, sign: -1},
		{token: "-d100", kind: TermKindDie, count: 1, faces: 100, sign: -1},
		{token: "d1", kind: TermKindDie, count: 1, faces: 1, sign: 1},
		{token: "3", kind: TermKindModifier, value: 3, sign: 1},
		{token: "+4", kind: TermKindModifier, value: 4, sign: 1},
		{token: "-2", kind: TermKindModifier, value: 2, sign: -1},
		{token: "0", kind: TermKindModifier, value: 0, sign: 1},
		{token: "-1000000", kind: TermKindModifier, value: MaxModifier, sign: -1},
	}

	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			term, err := ParseTerm(tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, term.Kind)
			assert.Equal(t, tc.sign, term.Sign)
			assert.Equal(t, tc.token, term.Raw)
			if tc.kind == TermKindDie {
				assert.Equal(t, tc.count, term.Count)
				assert.Equal(t, tc.faces, term.Faces)
			} else {
				assert.Equal(t, tc.value, term.Value)
			}
		})
	}
}

func TestParseTerm_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		token  string
		reason string
	}{
		{name: "empty", token: "", reason: "empty term"},
		{name: "sign only", token: "-", reason: "empty term"},
		{name: "word", token: "abc", reason: "modifier must be an integer"},
		{name: "zero faces", token: "2d0", reason: "face count must be at least 1"},
		{name: "negative faces", token: "2d-6", reason: "face count must be a positive integer"},
		{name: "missing faces", token: "3d", reason: "missing face count"},
		{name: "non numeric faces", token: "1dX", reason: "face count must be a positive integer"},
		{name: "non numeric count", token: "xd6", reason: "dice count must be a positive integer"},
		{name: "zero count", token: "0d6", reason: "dice count must be at least 1"},
		{name: "too many dice", token: "1001d6", reason: "too many dice in one term"},
		{name: "double delimiter", token: "1d6d6", reason: "face count must be a positive integer"},
		{name: "decimal modifier", token: "1.5", reason: "modifier must be an integer"},
		{name: "modifier too large", token: "+1000001", reason: "modifier is too large"},
		{name: "max int modifier", token: "+9223372036854775807", reason: "modifier is too large"},
		{name: "beyond int64", token: "99999999999999999999", reason: "modifier must be an integer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			term, err := ParseTerm(tc.token)
			require.Error(t, err)
			assert.Nil(t, term)

			pe, ok := errors.AsParseError(err)
			require.True(t, ok)
			assert.Equal(t, tc.token, pe.Token)
			assert.Equal(t, tc.reason, pe.Reason)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestParseTerm_Idempotent(t *testing.T) {
	for _, token := range []string{"4d6", "-d8", "+7", "-12"} {
		first, err := ParseTerm(token)
		require.NoError(t, err)
		second, err := ParseTerm(token)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, first.Min(), second.Min())
		assert.Equal(t, first.Max(), second.Max())
	}
}

func TestTerm_Roll(t *testing.T) {
	t.Run("die term draws count values", func(t *testing.T) {
		term, err := ParseTerm("3d6")
		require.NoError(t, err)

		roller := &fixedRoller{values: []int{2, 5, 6}}
		outcomes, err := term.Roll(roller)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 5, 6}, outcomes)
	})

	t.Run("negative die term negates every draw", func(t *testing.T) {
		term, err := ParseTerm("-2d4")
		require.NoError(t, err)

		roller := &fixedRoller{values: []int{1, 4}}
		outcomes, err := term.Roll(roller)
		require.NoError(t, err)
		assert.Equal(t, []int{-1, -4}, outcomes)
	})

	t.Run("modifier term never touches the roller", func(t *testing.T) {
		term, err := ParseTerm("-3")
		require.NoError(t, err)

		roller := &fixedRoller{values: []int{6}}
		outcomes, err := term.Roll(roller)
		require.NoError(t, err)
		assert.Equal(t, []int{-3}, outcomes)
		assert.Zero(t, roller.calls)
	})
}

func TestTerm_Bounds(t *testing.T) {
	testCases := []struct {
		token string
		min   int
		max   int
	}{
		{"2d6", 2, 12},
		{"-2d6", -12, -2},
		{"+5", 5, 5},
		{"-5", -5, -5},
	}

	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			term, err := ParseTerm(tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.min, term.Min())
			assert.Equal(t, tc.max, term.Max())
		})
	}
}

func TestTerm_String(t *testing.T) {
	testCases := map[string]string{
		"d20":  "+1d20",
		"-2D6": "-2d6",
		"3":    "+3",
		"-4":   "-4",
	}

	for token, expected := range testCases {
		term, err := ParseTerm(token)
		require.NoError(t, err)
		assert.Equal(t, expected, term.String())
	}
}
