package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractThemes(t *testing.T) {
	themes := extractThemes([]string{
		"so much growth this year, growth everywhere",
		"grateful for family and friends, full of hope",
	})
	require.NotEmpty(t, themes)
	assert.Equal(t, "growth", themes[0])
	assert.Contains(t, themes, "family")
	assert.LessOrEqual(t, len(themes), 5)
}

func TestExtractThemes_NoHitsFallsBack(t *testing.T) {
	assert.Equal(t, defaultThemes, extractThemes([]string{"nothing matching here"}))
	assert.Equal(t, defaultThemes, extractThemes(nil))
}

func TestGenerate_NoCapsules(t *testing.T) {
	client := newMemClient("u-1")
	store, _ := newTestStore(t, client)
	svc := NewReflectionService(store)

	reflections, err := svc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, reflections, 1)
	assert.Equal(t, "periodic", reflections[0].Type)
	assert.Equal(t, defaultThemes, reflections[0].KeyThemes)
}

func TestGenerate_UsesUnlockedContentOnly(t *testing.T) {
	client := newMemClient("u-1")
	store, _ := newTestStore(t, client)
	ctx := context.Background()

	_, err := store.Create(ctx, "Open", "growth and hope and growth", time.Now().Add(-time.Hour), nil)
	require.NoError(t, err)
	_, err = store.Create(ctx, "Sealed", "fear fear fear", time.Now().Add(time.Hour), nil)
	require.NoError(t, err)

	svc := NewReflectionService(store)
	reflections, err := svc.Generate(ctx)
	require.NoError(t, err)
	require.Len(t, reflections, 2)

	assert.Contains(t, reflections[0].KeyThemes, "growth")
	assert.NotContains(t, reflections[0].KeyThemes, "fear")
	assert.Equal(t, "milestone", reflections[1].Type)
}
