package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator(t *testing.T) {
	id := NewUUID(PrefixRoll).Generate()
	require.True(t, strings.HasPrefix(id, "roll_"))

	_, err := uuid.Parse(strings.TrimPrefix(id, "roll_"))
	assert.NoError(t, err)

	bare := NewUUID("").Generate()
	_, err = uuid.Parse(bare)
	assert.NoError(t, err)
}

func TestSequentialGenerator(t *testing.T) {
	gen := NewSequential("roll")
	assert.Equal(t, "roll_1", gen.Generate())
	assert.Equal(t, "roll_2", gen.Generate())

	assert.Equal(t, "1", NewSequential("").Generate())
}

func TestSequentialGenerator_Concurrent(t *testing.T) {
	gen := NewSequential("")

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen.Generate()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
}
