package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskID(t *testing.T) {
	t.Parallel()

	id, err := newTaskID()
	require.NoError(t, err)

	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "task", parts[0])
	assert.Len(t, parts[2], idSuffixLength)

	for _, c := range parts[2] {
		assert.Contains(t, idSuffixAlphabet, string(c))
	}
}

func TestNewTaskID_Unique(t *testing.T) {
	t.Parallel()

	const iterations = 1000
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id, err := newTaskID()
		require.NoError(t, err)
		assert.False(t, seen[id], "expected all task ids to be unique")
		seen[id] = true
	}
}
