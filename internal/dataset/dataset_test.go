package dataset

import (
	"testing"

	"github.com/vogelring/vogelring/internal/filter"
	"github.com/vogelring/vogelring/internal/model"
	"github.com/vogelring/vogelring/internal/ringset"
)

func source() model.Table {
	return model.Table{
		{ID: "1", Species: "Goose", Place: "Lake"},
		{ID: "2", Species: "Goose", Place: "Forest"},
		{ID: "3", Species: "Swan", Place: "Lake"},
	}
}

func TestMaterializeFlagsWithoutRemoving(t *testing.T) {
	d := &Dataset{
		Name:        "geese",
		Filters:     filter.Set{filter.Equals("species", "Goose")},
		ExcludedIDs: ringset.New("2", "stale-id"),
	}

	snap := Materialize(d, source())
	filtered := d.Filters.Apply(source())
	if len(snap.Rows) != len(filtered) {
		t.Fatalf("exclusion must not remove rows: %d vs %d", len(snap.Rows), len(filtered))
	}
	if !snap.Rows[0].Included {
		t.Error("row 1 should be included")
	}
	if snap.Rows[1].Included {
		t.Error("row 2 is excluded and should be flagged")
	}

	included := snap.IncludedOnly()
	if len(included) != 1 || included[0].ID != "1" {
		t.Errorf("unexpected included rows: %v", included)
	}
}

func TestMaterializeUnknownIDFieldIncludesEverything(t *testing.T) {
	d := &Dataset{
		Name:        "degraded",
		IDField:     "retired_key",
		ExcludedIDs: ringset.New("1", "2", "3"),
	}
	if d.CanToggle() {
		t.Error("unknown id field must disable toggling")
	}

	snap := Materialize(d, source())
	for _, row := range snap.Rows {
		if !row.Included {
			t.Error("all rows must report included when the id field is absent")
		}
	}
}

func TestToggle(t *testing.T) {
	d := &Dataset{Name: "geese"}

	d.Toggle("2")
	if !d.ExcludedIDs.Contains("2") {
		t.Error("first toggle should exclude")
	}
	d.Toggle("2")
	if d.ExcludedIDs.Contains("2") {
		t.Error("second toggle should re-include")
	}
}

func TestToggleLeavesFiltersAlone(t *testing.T) {
	d := &Dataset{
		Name:    "geese",
		Columns: []string{"ring", "place"},
		Filters: filter.Set{filter.Equals("species", "Goose")},
	}
	d.Toggle("1")

	if len(d.Filters) != 1 || len(d.Columns) != 2 {
		t.Error("toggle must touch excluded_ids only")
	}
}

func TestSelectAllAndNone(t *testing.T) {
	d := &Dataset{Name: "geese", ExcludedIDs: ringset.New("1", "2")}

	d.SelectAll()
	if d.ExcludedIDs.Len() != 0 {
		t.Error("select all must clear exclusions")
	}

	d.SelectNone([]string{"1", "2", "3"})
	if d.ExcludedIDs.Len() != 3 {
		t.Errorf("select none must exclude all current ids, got %v", d.ExcludedIDs.Values())
	}
}

func TestPruneIsExplicitOnly(t *testing.T) {
	d := &Dataset{Name: "geese", ExcludedIDs: ringset.New("1", "gone-a", "gone-b")}

	removed := d.Prune([]string{"1", "2", "3"})
	if removed != 2 {
		t.Errorf("expected 2 pruned ids, got %d", removed)
	}
	if !d.ExcludedIDs.Equal(ringset.New("1")) {
		t.Errorf("unexpected remainder: %v", d.ExcludedIDs.Values())
	}
}

func TestDuplicate(t *testing.T) {
	base := &Dataset{
		Name:        "geese",
		Description: "all geese",
		Columns:     []string{"ring"},
		Filters:     filter.Set{filter.Equals("species", "Goose")},
		ExcludedIDs: ringset.New("2"),
	}

	copy := base.Duplicate("geese-copy", nil)
	if copy.Name != "geese-copy" || copy.Description != "all geese" {
		t.Errorf("unexpected copy meta: %+v", copy)
	}
	if !copy.ExcludedIDs.Equal(base.ExcludedIDs) {
		t.Error("excluded ids must carry over")
	}
	if !copy.CreatedAt.IsZero() || !copy.UpdatedAt.IsZero() {
		t.Error("timestamps must not carry over")
	}

	// The copy must be independent of the base.
	copy.Toggle("3")
	if base.ExcludedIDs.Contains("3") {
		t.Error("mutating the copy leaked into the base")
	}

	desc := "just the copy"
	renamed := base.Duplicate("other", &desc)
	if renamed.Description != desc {
		t.Errorf("expected replaced description, got %q", renamed.Description)
	}
}

func TestSnapshotRowIDs(t *testing.T) {
	d := &Dataset{Name: "all"}
	snap := Materialize(d, source())
	ids := snap.RowIDs("")
	if len(ids) != 3 || ids[0] != "1" || ids[2] != "3" {
		t.Errorf("unexpected ids: %v", ids)
	}
}
