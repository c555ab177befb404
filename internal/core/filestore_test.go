// AngelaMos | 2026
// filestore_test.go

package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID string `json:"id"`
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	s, err := NewFileStore(filepath.Join(t.TempDir(), "data", "database.json"))
	require.NoError(t, err)
	return s
}

func TestNewFileStoreWritesEmptyDocument(t *testing.T) {
	s := newTestStore(t)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))

	for _, key := range []string{
		SectionUsers,
		SectionProducts,
		SectionContactSettings,
		SectionInquiries,
	} {
		assert.Contains(t, doc, key)
	}
	assert.JSONEq(t, "null", string(doc[SectionContactSettings]))
}

func TestNewFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestMutateSectionPersists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := MutateSection(ctx, s, SectionProducts, func(items *[]entry) error {
		*items = append(*items, entry{ID: "a"}, entry{ID: "b"})
		return nil
	})
	require.NoError(t, err)

	reopened, err := NewFileStore(s.Path())
	require.NoError(t, err)

	items, err := ReadSection[[]entry](ctx, reopened, SectionProducts)
	require.NoError(t, err)
	assert.Equal(t, []entry{{ID: "a"}, {ID: "b"}}, items)
}

func TestMutateSectionErrorLeavesDocumentUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := MutateSection(ctx, s, SectionProducts, func(items *[]entry) error {
		*items = append(*items, entry{ID: "a"})
		return boom
	})
	require.ErrorIs(t, err, boom)

	items, err := ReadSection[[]entry](ctx, s, SectionProducts)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMutateSectionSerializesWriters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 20

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := MutateSection(ctx, s, SectionInquiries, func(items *[]entry) error {
				*items = append(*items, entry{ID: "x"})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := ReadSection[[]entry](ctx, s, SectionInquiries)
	require.NoError(t, err)
	assert.Len(t, items, writers)
}

func TestReadSectionHonoursCancelledContext(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadSection[[]entry](ctx, s, SectionProducts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMutateSectionUnchangedSkipsWrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before, err := os.Stat(s.Path())
	require.NoError(t, err)

	err = MutateSection(ctx, s, SectionProducts, func(items *[]entry) error {
		*items = append(*items, entry{ID: "dropped"})
		return ErrUnchanged
	})
	require.NoError(t, err)

	after, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.True(t, os.SameFile(before, after))

	items, err := ReadSection[[]entry](ctx, s, SectionProducts)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 3 {
		err := MutateSection(ctx, s, SectionProducts, func(items *[]entry) error {
			*items = append(*items, entry{ID: string(rune('a' + i))})
			return nil
		})
		require.NoError(t, err)
	}

	names, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "database.json", names[0].Name())

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, storeFileMode, info.Mode().Perm())
}
