// Package store persists named views and datasets as JSON documents
// keyed by resource name. Three backends share one contract: SQLite,
// PostgreSQL, and a plain directory of JSON files.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/vogelring/vogelring/internal/dataset"
	"github.com/vogelring/vogelring/internal/view"
)

var (
	// ErrNotFound is returned when no resource with the given name exists.
	ErrNotFound = errors.New("store: resource not found")

	// ErrConflict is returned when a dataset save carries a stale
	// revision: another write happened since the caller loaded it.
	ErrConflict = errors.New("store: resource changed since it was loaded")

	// ErrUnavailable is returned when the backing store cannot be
	// reached or a document is corrupt.
	ErrUnavailable = errors.New("store: source unavailable")
)

// Store defines the persistence contract for named resources. Saving an
// existing name overwrites it (last write wins), except that dataset
// saves are guarded by optimistic concurrency on UpdatedAt.
type Store interface {
	GetView(name string) (*view.View, error)
	ListViews() ([]*view.View, error)
	SaveView(v *view.View) error
	DeleteView(name string) error

	GetDataset(name string) (*dataset.Dataset, error)
	ListDatasets() ([]*dataset.Dataset, error)
	SaveDataset(d *dataset.Dataset) error
	DeleteDataset(name string) error

	Close() error
	Path() string
}

func unavailable(action string, err error) error {
	return fmt.Errorf("%s: %w: %v", action, ErrUnavailable, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// stampDataset applies the optimistic-concurrency check and refreshes the
// timestamps before a dataset write. existing is nil for a first save.
func stampDataset(d *dataset.Dataset, existing *dataset.Dataset, now time.Time) error {
	if d.Name == "" {
		return errors.New("store: dataset requires a name")
	}
	if existing != nil {
		if !d.UpdatedAt.Equal(existing.UpdatedAt) {
			return fmt.Errorf("saving dataset %q: %w", d.Name, ErrConflict)
		}
		d.CreatedAt = existing.CreatedAt
	} else if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	return nil
}
