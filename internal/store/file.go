package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fxdesk/internal/currency"
)

const (
	headFile       = "HEAD"
	comparisonFile = "comparison_result.json"
	snapshotExt    = ".json"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps one JSON file per (slot, base) under a root directory.
//
// Layout:
//
//	<root>/HEAD                    name of the slot holding Newer
//	<root>/slot-a/<BASE>.json
//	<root>/slot-b/<BASE>.json
//	<root>/slot-c/<BASE>.json
//	<root>/comparison_result.json
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// Root returns the store's root directory.
func (s *FileStore) Root() string { return s.root }

func (s *FileStore) slotDir(slot Slot) string {
	return filepath.Join(s.root, "slot-"+string(slot))
}

func (s *FileStore) snapshotPath(slot Slot, base string) (string, error) {
	if !currency.IsValidCode(base) {
		return "", fmt.Errorf("snapshot key %q: %w", base, currency.ErrInvalidCode)
	}
	return filepath.Join(s.slotDir(slot), strings.ToUpper(base)+snapshotExt), nil
}

func (s *FileStore) head() (Slot, error) {
	data, err := os.ReadFile(filepath.Join(s.root, headFile))
	if errors.Is(err, fs.ErrNotExist) {
		return SlotA, nil
	}
	if err != nil {
		return "", fmt.Errorf("read generation pointer: %w", err)
	}
	slot := Slot(strings.TrimSpace(string(data)))
	if !slot.Valid() {
		return "", fmt.Errorf("generation pointer holds unknown slot %q", slot)
	}
	return slot, nil
}

func (s *FileStore) resolve(gen Generation) (Slot, error) {
	newer, err := s.head()
	if err != nil {
		return "", err
	}
	return SlotFor(newer, gen)
}

// ReadSnapshot returns the stored document for base in gen.
func (s *FileStore) ReadSnapshot(_ context.Context, gen Generation, base string) ([]byte, error) {
	slot, err := s.resolve(gen)
	if err != nil {
		return nil, err
	}
	path, err := s.snapshotPath(slot, base)
	if err != nil {
		return nil, err
	}
	return readDocument(path)
}

// WriteSnapshot replaces the document for base in gen.
func (s *FileStore) WriteSnapshot(_ context.Context, gen Generation, base string, doc []byte) error {
	slot, err := s.resolve(gen)
	if err != nil {
		return err
	}
	path, err := s.snapshotPath(slot, base)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, doc)
}

// ClearStaging removes the staging slot directory.
func (s *FileStore) ClearStaging(_ context.Context) error {
	newer, err := s.head()
	if err != nil {
		return err
	}
	dir := s.slotDir(newer.Next())
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear slot %s: %w", dir, err)
	}
	return nil
}

// Rotate points HEAD at the staging slot, then removes the slot that held the
// older generation. Only the HEAD rename is visible to readers.
func (s *FileStore) Rotate(_ context.Context) error {
	newer, err := s.head()
	if err != nil {
		return err
	}

	staging := newer.Next()
	n, err := countSnapshots(s.slotDir(staging))
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	if err := writeFileAtomic(filepath.Join(s.root, headFile), []byte(string(staging)+"\n")); err != nil {
		return fmt.Errorf("flip generation pointer: %w", err)
	}
	// the discarded slot is now the staging slot; ClearStaging retries a failed removal
	_ = os.RemoveAll(s.slotDir(newer.Prev()))
	return nil
}

// ReadComparison returns the comparison document.
func (s *FileStore) ReadComparison(_ context.Context) ([]byte, error) {
	return readDocument(filepath.Join(s.root, comparisonFile))
}

// WriteComparison replaces the comparison document.
func (s *FileStore) WriteComparison(_ context.Context, doc []byte) error {
	return writeFileAtomic(filepath.Join(s.root, comparisonFile), doc)
}

func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func countSnapshots(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("list slot %s: %w", dir, err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == snapshotExt {
			n++
		}
	}
	return n, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
