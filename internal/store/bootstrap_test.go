package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takhirov/menukeeper/models"
)

func TestBootstrap_SeedsDefaultTaxonomies(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	categories, err := s.ListReference(ctx, models.ReferenceTypeCategory)
	require.NoError(t, err)
	assert.Len(t, categories, 5)

	dietary, err := s.ListReference(ctx, models.ReferenceTypeDietary)
	require.NoError(t, err)
	assert.Len(t, dietary, 4)

	spice, err := s.ListReference(ctx, models.ReferenceTypeSpiceLevel)
	require.NoError(t, err)
	assert.Len(t, spice, 4)

	entry, err := s.GetReference(ctx, models.ReferenceTypeSpiceLevel, models.DefaultSpiceLevel)
	require.NoError(t, err)
	assert.Equal(t, "Mild", entry.Value)
}

func TestBootstrap_IsIdempotentAcrossRestarts(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "fallback.json")
	ctx := context.Background()

	s1 := newFallbackStore(t, snapshot)

	// simulate a locally customized label; the bootstrap must not clobber it
	require.NoError(t, s1.backend.UpsertReference(ctx, models.ReferenceData{
		Type:  models.ReferenceTypeCategory,
		Key:   "starters",
		Value: "Appetizers",
	}))
	require.NoError(t, s1.Close())

	s2 := newFallbackStore(t, snapshot)
	entry, err := s2.GetReference(ctx, models.ReferenceTypeCategory, "starters")
	require.NoError(t, err)
	assert.Equal(t, "Appetizers", entry.Value)

	categories, err := s2.ListReference(ctx, models.ReferenceTypeCategory)
	require.NoError(t, err)
	assert.Len(t, categories, 5, "reseeding must not duplicate entries")
}

func TestBootstrap_GetReference_Unknown(t *testing.T) {
	s := newFallbackStore(t, "")

	_, err := s.GetReference(context.Background(), models.ReferenceTypeCategory, "no-such-key")
	require.ErrorIs(t, err, ErrReferenceNotFound)
}
