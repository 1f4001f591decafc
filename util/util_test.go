package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixpointStopsWhenStable(t *testing.T) {
	calls := 0
	rounds, err := Fixpoint(10, func() (bool, error) {
		calls++
		return calls < 3, nil
	})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(2, rounds)
	assert.Equal(3, calls)
}

func TestFixpointBound(t *testing.T) {
	calls := 0
	_, err := Fixpoint(4, func() (bool, error) {
		calls++
		return true, nil
	})

	assert := assert.New(t)
	assert.True(errors.Is(err, ErrFixpointBound))
	assert.Equal(5, calls)
}

func TestFixpointPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Fixpoint(4, func() (bool, error) { return true, boom })
	assert.Equal(t, boom, err)
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[int]string{3: "c", 1: "a", 2: "b"})
	assert.Equal(t, []int{1, 2, 3}, keys)
}

func TestMean(t *testing.T) {
	m, ok := Mean([]int{10, 20, 33})
	assert.True(t, ok)
	assert.InDelta(t, 21.0, m, 1e-9)

	_, ok = Mean([]float64{})
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	assert.Equal(t, []int{1, 3}, Remove([]int{1, 2, 3, 2}, 2))
	assert.True(t, Contains([]string{"a", "b"}, "b"))
}
