package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vogelring/vogelring/internal/dataset"
	"github.com/vogelring/vogelring/internal/view"
)

// FileStore persists each named resource as one JSON file under a
// storage directory, views and datasets in separate subdirectories.
type FileStore struct {
	root string
}

// OpenFile opens (or creates) a file-backed store rooted at dir.
func OpenFile(dir string) (*FileStore, error) {
	for _, sub := range []string{viewsTable, datasetsTable} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, unavailable("creating storage directory", err)
		}
	}
	return &FileStore{root: dir}, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }

// Path returns the storage directory.
func (s *FileStore) Path() string { return s.root }

// safeName keeps letters, digits, dashes, underscores, and spaces, then
// replaces spaces so every resource name maps to a filesystem-safe stem.
func safeName(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == ' ':
			b.WriteRune(c)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

func (s *FileStore) docPath(kind, name string) string {
	return filepath.Join(s.root, kind, safeName(name)+".json")
}

func (s *FileStore) getDocument(kind, name string) ([]byte, error) {
	doc, err := os.ReadFile(s.docPath(kind, name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("reading "+kind, err)
	}
	return doc, nil
}

func (s *FileStore) listDocuments(kind string) ([][]byte, error) {
	paths, err := filepath.Glob(filepath.Join(s.root, kind, "*.json"))
	if err != nil {
		return nil, unavailable("listing "+kind, err)
	}
	sort.Strings(paths)

	var docs [][]byte
	for _, p := range paths {
		doc, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *FileStore) saveDocument(kind, name string, doc []byte) error {
	if err := os.WriteFile(s.docPath(kind, name), doc, 0o644); err != nil {
		return unavailable("saving "+kind, err)
	}
	return nil
}

func (s *FileStore) deleteDocument(kind, name string) error {
	err := os.Remove(s.docPath(kind, name))
	if err != nil && !os.IsNotExist(err) {
		return unavailable("deleting "+kind, err)
	}
	return nil
}

// GetView loads one view by name.
func (s *FileStore) GetView(name string) (*view.View, error) {
	doc, err := s.getDocument(viewsTable, name)
	if err != nil {
		return nil, err
	}
	var v view.View
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, unavailable("decoding view "+name, err)
	}
	return &v, nil
}

// ListViews returns all saved views. Corrupt documents are skipped.
func (s *FileStore) ListViews() ([]*view.View, error) {
	docs, err := s.listDocuments(viewsTable)
	if err != nil {
		return nil, err
	}
	views := make([]*view.View, 0, len(docs))
	for _, doc := range docs {
		var v view.View
		if err := json.Unmarshal(doc, &v); err != nil {
			continue
		}
		views = append(views, &v)
	}
	return views, nil
}

// SaveView stores a view, overwriting any existing view of the same name.
func (s *FileStore) SaveView(v *view.View) error {
	if v.Name == "" {
		return fmt.Errorf("store: view requires a name")
	}
	doc, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding view %q: %w", v.Name, err)
	}
	return s.saveDocument(viewsTable, v.Name, doc)
}

// DeleteView removes a view. Deleting a missing view is not an error.
func (s *FileStore) DeleteView(name string) error {
	return s.deleteDocument(viewsTable, name)
}

// GetDataset loads one dataset by name.
func (s *FileStore) GetDataset(name string) (*dataset.Dataset, error) {
	doc, err := s.getDocument(datasetsTable, name)
	if err != nil {
		return nil, err
	}
	var d dataset.Dataset
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, unavailable("decoding dataset "+name, err)
	}
	return &d, nil
}

// ListDatasets returns all saved datasets.
func (s *FileStore) ListDatasets() ([]*dataset.Dataset, error) {
	docs, err := s.listDocuments(datasetsTable)
	if err != nil {
		return nil, err
	}
	datasets := make([]*dataset.Dataset, 0, len(docs))
	for _, doc := range docs {
		var d dataset.Dataset
		if err := json.Unmarshal(doc, &d); err != nil {
			continue
		}
		datasets = append(datasets, &d)
	}
	return datasets, nil
}

// SaveDataset stores a dataset under the same optimistic-concurrency
// rules as the SQL backend.
func (s *FileStore) SaveDataset(d *dataset.Dataset) error {
	existing, err := s.GetDataset(d.Name)
	if err != nil && !isNotFound(err) {
		return err
	}
	if err := stampDataset(d, existing, time.Now().UTC()); err != nil {
		return err
	}

	doc, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset %q: %w", d.Name, err)
	}
	return s.saveDocument(datasetsTable, d.Name, doc)
}

// DeleteDataset removes a dataset. Deleting a missing dataset is not an
// error.
func (s *FileStore) DeleteDataset(name string) error {
	return s.deleteDocument(datasetsTable, name)
}
