// AngelaMos | 2026
// filestore.go

package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
)

const (
	SectionUsers           = "users"
	SectionProducts        = "products"
	SectionContactSettings = "contactSettings"
	SectionInquiries       = "inquiries"
)

// FileStore keeps every collection in one JSON document on disk. Each
// operation loads the whole document, works on it in memory and writes it
// back while holding the store mutex, so concurrent writers never interleave.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileDocument map[string]json.RawMessage

const storeFileMode fs.FileMode = 0o600

// ErrUnchanged, returned from a MutateSection callback, ends the mutation
// without writing the document.
var ErrUnchanged = errors.New("section unchanged")

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &FileStore{path: path}

	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.persist(emptyDocument()); err != nil {
			return nil, fmt.Errorf("initialize file store: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat file store: %w", err)
	}

	if _, err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("file store unavailable: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// ReadSection decodes one top-level key of the document into a T. A missing
// or null key yields the zero value.
func ReadSection[T any](ctx context.Context, s *FileStore, key string) (T, error) {
	var out T

	if err := ctx.Err(); err != nil {
		return out, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return out, err
	}

	if err := decodeSection(doc, key, &out); err != nil {
		return out, err
	}

	return out, nil
}

// MutateSection runs fn against one key of the document and persists the
// result. If fn returns an error nothing is written; ErrUnchanged is not
// reported to the caller.
func MutateSection[T any](
	ctx context.Context,
	s *FileStore,
	key string,
	fn func(section *T) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	var section T
	if err := decodeSection(doc, key, &section); err != nil {
		return err
	}

	if err := fn(&section); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return nil
		}
		return err
	}

	raw, err := json.Marshal(section)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	doc[key] = raw

	return s.persist(doc)
}

func decodeSection(doc fileDocument, key string, out any) error {
	raw, ok := doc[key]
	if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}

	return nil
}

func (s *FileStore) load() (fileDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read file store: %w", err)
	}

	doc := fileDocument{}
	if len(bytes.TrimSpace(data)) == 0 {
		return emptyDocument(), nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse file store: %w", err)
	}

	return doc, nil
}

// persist replaces the store file atomically, so a crash mid-write leaves
// the previous document intact.
func (s *FileStore) persist(doc fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode file store: %w", err)
	}

	err = renameio.WriteFile(s.path, data, storeFileMode,
		renameio.WithTempDir(filepath.Dir(s.path)),
	)
	if err != nil {
		return fmt.Errorf("replace file store: %w", err)
	}

	return nil
}

func emptyDocument() fileDocument {
	return fileDocument{
		SectionUsers:           json.RawMessage("[]"),
		SectionProducts:        json.RawMessage("[]"),
		SectionContactSettings: json.RawMessage("null"),
		SectionInquiries:       json.RawMessage("[]"),
	}
}
