package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-roller/internal/entities"
	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

func TestParseScores(t *testing.T) {
	scores, err := parseScores([]string{"dex=14", " Spot Hidden = 40 ", "str=-1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"dex": 14, "Spot Hidden": 40, "str": -1}, scores)

	scores, err = parseScores(nil)
	require.NoError(t, err)
	assert.Nil(t, scores)
}

func TestParseScoresErrors(t *testing.T) {
	for _, pair := range []string{"dex", "=14", "dex=high"} {
		_, err := parseScores([]string{pair})
		assert.True(t, errors.IsInvalidArgument(err), pair)
	}
}

func TestParseAttributes(t *testing.T) {
	attrs, err := parseAttributes([]string{"Race=Tiefling", " Patron = ", "Motto=a=b"}, true)
	require.NoError(t, err)
	assert.Equal(t, []entities.Attribute{
		{Key: "Race", Value: "Tiefling", Display: true},
		{Key: "Patron", Value: "", Display: true},
		{Key: "Motto", Value: "a=b", Display: true},
	}, attrs)

	attrs, err = parseAttributes([]string{"Secret=yes"}, false)
	require.NoError(t, err)
	assert.False(t, attrs[0].Display)

	_, err = parseAttributes([]string{"=x"}, true)
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = parseAttributes([]string{"Race"}, true)
	assert.True(t, errors.IsInvalidArgument(err))
}
