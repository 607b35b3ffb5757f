package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vogelring/vogelring/internal/app"
	"github.com/vogelring/vogelring/internal/config"
	"github.com/vogelring/vogelring/internal/csvsource"
	"github.com/vogelring/vogelring/internal/filter"
	"github.com/vogelring/vogelring/internal/logging"
	"github.com/vogelring/vogelring/internal/store"
)

// buildApp assembles the application from the effective configuration.
// The returned closer releases the store.
func buildApp() (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logging.New(cfg.Log)

	st, err := store.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	result, err := csvsource.Load(cfg.Data.SightingsPath)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("loading sightings: %w", err)
	}
	log.Info("sightings loaded",
		"path", cfg.Data.SightingsPath,
		"rows", result.Count,
		"excluded", result.Excluded)

	a := app.New(st, result.Table, log)
	return a, func() { st.Close() }, nil
}

// filterFlags collects repeatable predicate flags shared by the views
// and datasets commands.
type filterFlags struct {
	equals   []string
	contains []string
	oneOf    []string
	dates    []string
	ranges   []string
}

func addFilterFlags(cmd *cobra.Command, ff *filterFlags) {
	cmd.Flags().StringArrayVar(&ff.equals, "equals", nil, "equality filter, column=value (repeatable)")
	cmd.Flags().StringArrayVar(&ff.contains, "contains", nil, "substring filter, column=value (repeatable)")
	cmd.Flags().StringArrayVar(&ff.oneOf, "one-of", nil, "membership filter, column=a,b,c (repeatable)")
	cmd.Flags().StringArrayVar(&ff.dates, "dates", nil, "date range filter, column=start..end (repeatable)")
	cmd.Flags().StringArrayVar(&ff.ranges, "range", nil, "numeric range filter, column=min..max (repeatable)")
}

// predicates parses the collected flag values into a filter set.
func (ff *filterFlags) predicates() (filter.Set, error) {
	var set filter.Set

	for _, expr := range ff.equals {
		column, value, err := splitExpr(expr)
		if err != nil {
			return nil, err
		}
		set = append(set, filter.Equals(column, value))
	}
	for _, expr := range ff.contains {
		column, value, err := splitExpr(expr)
		if err != nil {
			return nil, err
		}
		set = append(set, filter.Contains(column, value))
	}
	for _, expr := range ff.oneOf {
		column, value, err := splitExpr(expr)
		if err != nil {
			return nil, err
		}
		set = append(set, filter.MultiIn(column, splitList(value)))
	}
	for _, expr := range ff.dates {
		column, start, end, err := splitRangeExpr(expr)
		if err != nil {
			return nil, err
		}
		set = append(set, filter.DateRange(column, start, end))
	}
	for _, expr := range ff.ranges {
		column, min, max, err := splitRangeExpr(expr)
		if err != nil {
			return nil, err
		}
		set = append(set, filter.NumberRange(column, min, max))
	}
	return set, nil
}

// splitExpr splits "column=value".
func splitExpr(expr string) (string, string, error) {
	column, value, ok := strings.Cut(expr, "=")
	if !ok || strings.TrimSpace(column) == "" {
		return "", "", fmt.Errorf("invalid filter expression %q, want column=value", expr)
	}
	return strings.TrimSpace(column), value, nil
}

// splitRangeExpr splits "column=start..end". Either bound may be empty.
func splitRangeExpr(expr string) (string, string, string, error) {
	column, value, err := splitExpr(expr)
	if err != nil {
		return "", "", "", err
	}
	start, end, ok := strings.Cut(value, "..")
	if !ok {
		return "", "", "", fmt.Errorf("invalid range expression %q, want column=start..end", expr)
	}
	return column, strings.TrimSpace(start), strings.TrimSpace(end), nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseYears(value string) ([]int, error) {
	var years []int
	for _, p := range splitList(value) {
		y, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", p)
		}
		years = append(years, y)
	}
	return years, nil
}
