package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Identity(t *testing.T) {
	for _, expr := range []string{"", ".", "  .  "} {
		s, err := Compile(expr)
		require.NoError(t, err)
		assert.True(t, s.Identity(), expr)
		assert.Equal(t, ".", s.String())

		rec := map[string]any{"a": 1}
		got, err := s.Select(context.Background(), rec)
		require.NoError(t, err)
		assert.Equal(t, []any{rec}, got)
	}
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(".items[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")

	_, err = Compile("undefined_function_xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile")
}

func TestSelector_Field(t *testing.T) {
	s, err := Compile(".payload")
	require.NoError(t, err)
	assert.False(t, s.Identity())

	got, err := s.Select(context.Background(), map[string]any{"payload": map[string]any{"id": 1.0}})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": 1.0}}, got)
}

func TestSelector_Fanout(t *testing.T) {
	s, err := Compile(".items[]")
	require.NoError(t, err)

	got, err := s.Select(context.Background(), map[string]any{"items": []any{"a", "b", nil}})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", nil}, got)
}

func TestSelector_NoOutputs(t *testing.T) {
	s, err := Compile(`select(.kind == "event")`)
	require.NoError(t, err)

	got, err := s.Select(context.Background(), map[string]any{"kind": "other"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelector_RuntimeError(t *testing.T) {
	s, err := Compile(".items[]")
	require.NoError(t, err)

	_, err = s.Select(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot iterate over: null")
	assert.Contains(t, err.Error(), "may not exist")
}

func TestSelector_Halt(t *testing.T) {
	s, err := Compile(`1, halt, 2`)
	require.NoError(t, err)

	got, err := s.Select(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1}, got)

	s, err = Compile(`"boom" | halt_error`)
	require.NoError(t, err)
	_, err = s.Select(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "halted")
}
