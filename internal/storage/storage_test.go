package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dongnecli/dongne/internal/region"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := OpenAt(t.TempDir())

	in := region.Selection{Province: "경기도", City: "수원시 장안구", District: "파장동"}
	require.NoError(t, s.Save(KeyUserLocation, in))
	assert.True(t, s.Has(KeyUserLocation))

	var out region.Selection
	found, err := s.Load(KeyUserLocation, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestLoadMissingKey(t *testing.T) {
	s := OpenAt(t.TempDir())

	var out region.Selection
	found, err := s.Load(KeyUserCoords, &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, s.Has(KeyUserCoords))
}

func TestLoadCorruptDocumentFailsOpen(t *testing.T) {
	dir := t.TempDir()
	s := OpenAt(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyUserLocation+".json"), []byte("{not json"), 0600))

	var out region.Selection
	found, err := s.Load(KeyUserLocation, &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDelete(t *testing.T) {
	s := OpenAt(t.TempDir())

	require.NoError(t, s.Save(KeyUserCoords, map[string]int{"x": 60, "y": 121}))
	require.NoError(t, s.Delete(KeyUserCoords))
	assert.False(t, s.Has(KeyUserCoords))

	// Deleting again is a no-op.
	require.NoError(t, s.Delete(KeyUserCoords))
}
