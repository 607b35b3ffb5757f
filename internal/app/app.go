// Package app ties the record source, the persistence store, and the
// moult analyzer together behind one service type. It owns the analysis
// cache: a full analyzer pass is expensive, so it runs only on explicit
// request and its result is reused until an input changes.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vogelring/vogelring/internal/dataset"
	"github.com/vogelring/vogelring/internal/model"
	"github.com/vogelring/vogelring/internal/moult"
	"github.com/vogelring/vogelring/internal/store"
	"github.com/vogelring/vogelring/internal/view"
)

// ErrNoSource is returned when an operation needs the sightings table
// but none was loaded.
var ErrNoSource = errors.New("app: record source not loaded")

// App is the service layer over one loaded sightings table and one
// persistence store.
type App struct {
	log    *slog.Logger
	store  store.Store
	source model.Table
	cache  *moult.Cache
}

// New creates the service layer. The source table is loaded once per
// process and shared read-only.
func New(st store.Store, source model.Table, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{
		log:    log,
		store:  st,
		source: source,
		cache:  moult.NewCache(),
	}
}

// Source returns the shared sightings table.
func (a *App) Source() model.Table {
	return a.source
}

// ResolveView loads a view by name and resolves it against the source.
func (a *App) ResolveView(name string) (view.Resolution, error) {
	v, err := a.store.GetView(name)
	if err != nil {
		return view.Resolution{}, err
	}
	if a.source == nil {
		return view.Resolution{}, ErrNoSource
	}
	return view.Resolve(v, a.source), nil
}

// ListViews returns all saved views.
func (a *App) ListViews() ([]*view.View, error) {
	return a.store.ListViews()
}

// SaveView stores a view.
func (a *App) SaveView(v *view.View) error {
	if err := a.store.SaveView(v); err != nil {
		return err
	}
	a.log.Info("view saved", "name", v.Name)
	return nil
}

// DeleteView removes a view.
func (a *App) DeleteView(name string) error {
	if err := a.store.DeleteView(name); err != nil {
		return err
	}
	a.log.Info("view deleted", "name", name)
	return nil
}

// ListDatasets returns all saved datasets.
func (a *App) ListDatasets() ([]*dataset.Dataset, error) {
	return a.store.ListDatasets()
}

// GetDataset loads a dataset by name.
func (a *App) GetDataset(name string) (*dataset.Dataset, error) {
	return a.store.GetDataset(name)
}

// SaveDataset stores a dataset and drops any cached analysis, since the
// snapshot it was computed from may have changed.
func (a *App) SaveDataset(d *dataset.Dataset) error {
	if err := a.store.SaveDataset(d); err != nil {
		return err
	}
	a.cache.Invalidate()
	a.log.Info("dataset saved", "name", d.Name)
	return nil
}

// DeleteDataset removes a dataset.
func (a *App) DeleteDataset(name string) error {
	if err := a.store.DeleteDataset(name); err != nil {
		return err
	}
	a.cache.Invalidate()
	a.log.Info("dataset deleted", "name", name)
	return nil
}

// MaterializeDataset loads a dataset and materializes its snapshot.
func (a *App) MaterializeDataset(name string) (*dataset.Dataset, dataset.Snapshot, error) {
	d, err := a.store.GetDataset(name)
	if err != nil {
		return nil, dataset.Snapshot{}, err
	}
	if a.source == nil {
		return nil, dataset.Snapshot{}, ErrNoSource
	}
	return d, dataset.Materialize(d, a.source), nil
}

// ToggleInclusion flips one row's inclusion and saves the dataset.
func (a *App) ToggleInclusion(name, id string) error {
	d, err := a.store.GetDataset(name)
	if err != nil {
		return err
	}
	if !d.CanToggle() {
		return fmt.Errorf("dataset %q: id field %q is not in the schema, inclusion is fixed", name, d.IDField)
	}
	d.Toggle(id)
	return a.SaveDataset(d)
}

// SelectAllRows clears all exclusions on a dataset and saves it.
func (a *App) SelectAllRows(name string) error {
	d, err := a.store.GetDataset(name)
	if err != nil {
		return err
	}
	d.SelectAll()
	return a.SaveDataset(d)
}

// SelectNoRows excludes every currently filtered row and saves.
func (a *App) SelectNoRows(name string) error {
	d, snap, err := a.MaterializeDataset(name)
	if err != nil {
		return err
	}
	d.SelectNone(snap.RowIDs(d.IDField))
	return a.SaveDataset(d)
}

// PruneDataset removes exclusions no longer reachable by the dataset's
// filters and saves. Returns how many ids were pruned.
func (a *App) PruneDataset(name string) (int, error) {
	d, snap, err := a.MaterializeDataset(name)
	if err != nil {
		return 0, err
	}
	removed := d.Prune(snap.RowIDs(d.IDField))
	if removed == 0 {
		return 0, nil
	}
	return removed, a.SaveDataset(d)
}

// DuplicateDataset copies a dataset under a new name and saves the copy.
func (a *App) DuplicateDataset(baseName, newName string, newDescription *string) (*dataset.Dataset, error) {
	base, err := a.store.GetDataset(baseName)
	if err != nil {
		return nil, err
	}
	copied := base.Duplicate(newName, newDescription)
	if err := a.SaveDataset(copied); err != nil {
		return nil, err
	}
	return copied, nil
}

// RunMoultAnalysis runs the analyzer over a dataset's included rows,
// serving repeat requests for the same dataset revision and parameters
// from the cache.
func (a *App) RunMoultAnalysis(datasetName string, p moult.Parameters) (*moult.Result, error) {
	d, err := a.store.GetDataset(datasetName)
	if err != nil {
		return nil, err
	}
	if a.source == nil {
		return nil, ErrNoSource
	}

	// The dataset revision is part of the key: a saved edit changes
	// UpdatedAt and forces a fresh pass.
	key := fmt.Sprintf("%s@%d", d.Name, d.UpdatedAt.UnixNano())
	if result, ok := a.cache.Get(key, p); ok {
		a.log.Debug("analysis served from cache", "dataset", datasetName)
		return result, nil
	}

	snap := dataset.Materialize(d, a.source)
	result, err := moult.Analyze(snap.IncludedOnly(), p)
	if err != nil {
		return nil, err
	}

	a.cache.Put(key, p, result)
	a.log.Info("analysis complete",
		"dataset", datasetName,
		"species", p.Species,
		"place", p.Place,
		"rings", result.MoultingRings.Len())
	return result, nil
}
