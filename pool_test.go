package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	X, Y int
}

func TestPoolAddGetModify(t *testing.T) {
	p := newPool[position](DefaultSchema)
	e0 := DefaultSchema.compose(0, 0)

	p.add(e0, position{1, 1})
	require.True(t, p.contains(e0))

	got := p.get(e0)
	assert.Equal(t, position{1, 1}, *got)

	p.modify(e0, position{9, 9})
	assert.Equal(t, position{9, 9}, *p.get(e0))
}

func TestPoolValuesStayInLockStepWithDenseOnSwapRemove(t *testing.T) {
	p := newPool[position](DefaultSchema)
	e0 := DefaultSchema.compose(0, 0)
	e1 := DefaultSchema.compose(1, 0)
	e2 := DefaultSchema.compose(2, 0)

	p.add(e0, position{0, 0})
	p.add(e1, position{1, 1})
	p.add(e2, position{2, 2})

	p.remove(e0)

	require.False(t, p.contains(e0))
	require.True(t, p.contains(e1))
	require.True(t, p.contains(e2))
	assert.Equal(t, len(p.values), p.set.len())

	assert.Equal(t, position{2, 2}, *p.get(e2))
	assert.Equal(t, position{1, 1}, *p.get(e1))
}

func TestPoolLen(t *testing.T) {
	p := newPool[position](DefaultSchema)
	assert.Equal(t, 0, p.len())

	e0 := DefaultSchema.compose(0, 0)
	p.add(e0, position{})
	assert.Equal(t, 1, p.len())

	p.remove(e0)
	assert.Equal(t, 0, p.len())
}

func TestTypedPoolRemoveIfPresentIsNoOpWhenAbsent(t *testing.T) {
	tp := newTypedPool[position](DefaultSchema)
	e0 := DefaultSchema.compose(0, 0)

	assert.NotPanics(t, func() { tp.removeIfPresent(e0) })
	assert.False(t, tp.contains(e0))
}

func TestTypedPoolName(t *testing.T) {
	tp := newTypedPool[position](DefaultSchema)
	assert.Contains(t, tp.name(), "position")
}
