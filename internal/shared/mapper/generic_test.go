package mapper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testModel struct {
	ID    uint
	Value int
}

type testEntity struct {
	Result string
}

func TestMapSliceWithError(t *testing.T) {
	toString := func(i int) (string, error) { return fmt.Sprintf("num_%d", i), nil }

	got, err := MapSliceWithError[int, string](nil, toString)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = MapSliceWithError([]int{1, 2}, toString)
	require.NoError(t, err)
	assert.Equal(t, []string{"num_1", "num_2"}, got)

	_, err = MapSliceWithError([]int{1, -1}, func(i int) (string, error) {
		if i < 0 {
			return "", errors.New("negative")
		}
		return "ok", nil
	})
	assert.EqualError(t, err, "negative")
}

func TestMapSlicePtrWithID(t *testing.T) {
	getID := func(m *testModel) uint { return m.ID }
	mapFn := func(m *testModel) (*testEntity, error) {
		if m.Value < 0 {
			return nil, errors.New("bad value")
		}
		if m.Value == 0 {
			return nil, nil
		}
		return &testEntity{Result: fmt.Sprintf("v%d", m.Value)}, nil
	}

	t.Run("skips nil input and nil output", func(t *testing.T) {
		got, err := MapSlicePtrWithID([]*testModel{{ID: 1, Value: 2}, nil, {ID: 3, Value: 0}}, mapFn, getID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "v2", got[0].Result)
	})

	t.Run("error carries item ID", func(t *testing.T) {
		_, err := MapSlicePtrWithID([]*testModel{{ID: 9, Value: -1}}, mapFn, getID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to map item ID 9")
	})

	t.Run("nil slice", func(t *testing.T) {
		got, err := MapSlicePtrWithID(nil, mapFn, getID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
