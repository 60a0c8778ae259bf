package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNestingStack(t *testing.T) {
	var n Nesting[uint32, string]
	require.True(t, n.Insert(0, 0, 20, "unit"))
	require.True(t, n.Insert(1, 0, 8, "decl"))
	require.True(t, n.Insert(1, 9, 20, "func"))
	require.True(t, n.Insert(2, 12, 15, "body"))
	assert.False(t, n.Insert(2, 16, 16, "empty"))
	assert.Equal(t, 4, n.Len())

	assert.Equal(t, []string{"unit", "decl"}, n.Stack(0))
	assert.Equal(t, []string{"unit", "decl"}, n.Stack(7))
	assert.Equal(t, []string{"unit"}, n.Stack(8))
	assert.Equal(t, []string{"unit", "func", "body"}, n.Stack(14))
	assert.Equal(t, []string{"unit", "func"}, n.Stack(15))
	assert.Empty(t, n.Stack(20))

	got, ok := n.Innermost(13)
	assert.True(t, ok)
	assert.Equal(t, "body", got)
}

func TestNestingRejectsOverlap(t *testing.T) {
	var n Nesting[int, int]
	n.Insert(0, 5, 10, 1)
	assert.Panics(t, func() { n.Insert(0, 8, 12, 2) })
	assert.Panics(t, func() { n.Insert(0, 0, 6, 3) })
	assert.NotPanics(t, func() { n.Insert(0, 10, 12, 4) })
	assert.NotPanics(t, func() { n.Insert(0, 0, 5, 5) })
}
