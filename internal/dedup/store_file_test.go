package dedup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "seen_jobs.json"))
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := tempStore(t)
	defer s.Close()

	set, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, set.Cardinality())
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := tempStore(t)
	defer s.Close()

	_, err := s.Load(context.Background())
	require.NoError(t, err)

	want := mapset.NewSet("aaa", "bbb", "ccc")
	require.NoError(t, s.Save(context.Background(), want))
	s.Close()

	s2 := NewFileStore(s.path)
	defer s2.Close()
	got, err := s2.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestFileStoreCorruptStateIsFatal(t *testing.T) {
	s := tempStore(t)
	defer s.Close()
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0644))

	_, err := s.Load(context.Background())
	require.Error(t, err)
	var serr *StoreError
	assert.ErrorAs(t, err, &serr)
	assert.Equal(t, "load", serr.Op)
}

func TestFileStoreSaveIsAtomicReplace(t *testing.T) {
	s := tempStore(t)
	defer s.Close()

	_, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), mapset.NewSet("one")))
	require.NoError(t, s.Save(context.Background(), mapset.NewSet("two", "three")))
	s.Close()

	s2 := NewFileStore(s.path)
	defer s2.Close()
	got, err := s2.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, mapset.NewSet("two", "three").Equal(got), "save replaces, not appends")

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(s.path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".seen_jobs-")
	}
}

func TestFileStoreReset(t *testing.T) {
	s := tempStore(t)
	defer s.Close()

	_, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), mapset.NewSet("x")))
	require.NoError(t, s.Reset(context.Background()))
	require.NoError(t, s.Reset(context.Background()), "reset is idempotent")

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr))
}
