package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/framecore/ecs"
)

type Score struct {
	Value int
}

type GameConfig struct {
	Difficulty string
	MaxPlayers int
}

func TestResources(t *testing.T) {
	w := ecs.NewWorld()

	_, ok := ecs.Resource[Score](w)
	assert.False(t, ok)
	assert.Panics(t, func() { ecs.MustResource[Score](w) })

	score := &Score{Value: 10}
	ecs.SetResource(w, score)
	got, ok := ecs.Resource[Score](w)
	require.True(t, ok)
	assert.Same(t, score, got)
	assert.Len(t, w.ResourceTypes(), 1)

	ecs.RemoveResource[Score](w)
	_, ok = ecs.Resource[Score](w)
	assert.False(t, ok)
}

func TestSingleton(t *testing.T) {
	t.Run("initializer is used when missing", func(t *testing.T) {
		w := ecs.NewWorld()
		cfg := ecs.NewSingleton(w, GameConfig{Difficulty: "hard", MaxPlayers: 4})
		require.True(t, cfg.Exists())
		assert.Equal(t, "hard", cfg.Get().Difficulty)

		cfg.Get().MaxPlayers = 8
		again := ecs.NewSingleton(w, GameConfig{Difficulty: "easy"})
		assert.Equal(t, 8, again.Get().MaxPlayers, "existing resource kept")
	})

	t.Run("zero value without initializer", func(t *testing.T) {
		w := ecs.NewWorld()
		score := ecs.NewSingleton[Score](w)
		assert.Equal(t, 0, score.Get().Value)
		score.Get().Value += 5
		assert.Equal(t, 5, ecs.MustResource[Score](w).Value)
	})

	t.Run("tracks replacement and removal", func(t *testing.T) {
		w := ecs.NewWorld()
		score := ecs.NewSingleton[Score](w)
		replacement := &Score{Value: 42}
		ecs.SetResource(w, replacement)
		assert.Same(t, replacement, score.Get())

		ecs.RemoveResource[Score](w)
		assert.Nil(t, score.Get())
		assert.False(t, score.Exists())
	})
}
