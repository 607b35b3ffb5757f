// Package moult determines where individually ringed birds go outside a
// defined moulting period. The analyzer is a pure function of a
// materialized dataset table and the analysis parameters; results are
// cached by the owning layer (see Cache).
package moult

import (
	"errors"
	"sort"
	"strings"

	"github.com/vogelring/vogelring/internal/model"
	"github.com/vogelring/vogelring/internal/ringset"
)

var (
	// ErrInsufficientParameters is returned when species, place, or the
	// year range is missing; the analyzer refuses to run partially.
	ErrInsufficientParameters = errors.New("moult analysis: insufficient parameters")

	// ErrEmptyResult is returned when no ring matches the moulting
	// definition. It is a signal, not a failure.
	ErrEmptyResult = errors.New("moult analysis: no rings match the moulting definition")
)

// DefinitionKind selects how "moulting" sightings are identified.
type DefinitionKind int

const (
	// DefinitionPeriod marks sightings inside a month window, evaluated
	// independently per calendar year. The window may wrap around the
	// December-January boundary.
	DefinitionPeriod DefinitionKind = iota + 1

	// DefinitionStatus marks sightings carrying a given status value.
	DefinitionStatus
)

// StatusAll is the sentinel status value matching every record.
const StatusAll = "all"

// Definition is the moulting-definition variant.
type Definition struct {
	Kind       DefinitionKind `json:"kind"`
	StartMonth int            `json:"start_month,omitempty"`
	EndMonth   int            `json:"end_month,omitempty"`
	Status     string         `json:"status,omitempty"`
}

// PeriodDefinition builds a month-window definition.
func PeriodDefinition(startMonth, endMonth int) Definition {
	return Definition{Kind: DefinitionPeriod, StartMonth: startMonth, EndMonth: endMonth}
}

// StatusDefinition builds a status definition. Pass StatusAll (or the
// empty string) to match every status.
func StatusDefinition(value string) Definition {
	return Definition{Kind: DefinitionStatus, Status: value}
}

// Parameters configure one analysis run.
type Parameters struct {
	Species    string     `json:"species"`
	Place      string     `json:"place"`
	Years      []int      `json:"years"`
	Definition Definition `json:"definition"`
}

func (p Parameters) validate() error {
	if strings.TrimSpace(p.Species) == "" || strings.TrimSpace(p.Place) == "" || len(p.Years) == 0 {
		return ErrInsufficientParameters
	}
	switch p.Definition.Kind {
	case DefinitionPeriod:
		if p.Definition.StartMonth < 1 || p.Definition.StartMonth > 12 ||
			p.Definition.EndMonth < 1 || p.Definition.EndMonth > 12 {
			return ErrInsufficientParameters
		}
	case DefinitionStatus:
		// Empty status is the "all" sentinel.
	default:
		return ErrInsufficientParameters
	}
	return nil
}

// Category labels one summary row.
type Category string

const (
	CategoryTotal              Category = "total"
	CategorySeenRestOfRange    Category = "seen_rest_of_range"
	CategoryOnlyDuringMoulting Category = "only_during_moulting"
	CategorySeenAtPlaceRest    Category = "seen_at_moulting_place"
	CategoryOnlyAtPlaceRest    Category = "only_at_moulting_place"
	CategorySeenElsewhere      Category = "seen_elsewhere"
)

// SummaryRow is one labeled count with its share of the moulting rings.
type SummaryRow struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Percent  float64  `json:"percent"`
}

// Result holds the movement summary and the three drill-down subsets.
type Result struct {
	Parameters      Parameters
	MoultingRings   ringset.Set
	Moulting        model.Table
	RestOfRange     model.Table
	AtMoultingPlace model.Table
	Elsewhere       model.Table
	Summary         []SummaryRow
}

// Analyze runs the moult migration analysis over an included-only table.
func Analyze(table model.Table, p Parameters) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	years := make(map[int]bool, len(p.Years))
	for _, y := range p.Years {
		years[y] = true
	}
	inRange := func(s *model.Sighting) bool {
		y, ok := s.YearValue()
		return ok && years[y]
	}

	// Step 1: candidates at the moulting place.
	var candidates model.Table
	for _, s := range table {
		if strings.TrimSpace(s.Species) == p.Species &&
			strings.TrimSpace(s.Place) == p.Place &&
			inRange(s) {
			candidates = append(candidates, s)
		}
	}

	// Step 2: restrict to the moulting definition.
	var moulting model.Table
	for _, s := range candidates {
		if p.Definition.matches(s) {
			moulting = append(moulting, s)
		}
	}

	// Step 3: the individuals that moulted there.
	moultingRings := ringsOf(moulting)
	if moultingRings.Len() == 0 {
		return nil, ErrEmptyResult
	}

	// Step 4: everything those individuals did elsewhere in the range.
	// The moulting window is carved out only for period definitions;
	// status definitions keep the full range.
	var rest model.Table
	for _, s := range table {
		if !moultingRings.Contains(s.NormalizedRing()) || !inRange(s) {
			continue
		}
		if p.Definition.Kind == DefinitionPeriod && p.Definition.matches(s) {
			continue
		}
		rest = append(rest, s)
	}

	// Step 5: partition by place.
	var atPlace, elsewhere model.Table
	for _, s := range rest {
		if strings.TrimSpace(s.Place) == p.Place {
			atPlace = append(atPlace, s)
		} else {
			elsewhere = append(elsewhere, s)
		}
	}

	// Step 6: set arithmetic over ring identifiers, not rows.
	restRings := ringsOf(rest)
	atPlaceRings := ringsOf(atPlace)
	elsewhereRings := ringsOf(elsewhere)

	total := moultingRings.Len()
	seenRest := restRings.Len()
	onlyDuringMoulting := total - seenRest
	seenAtPlaceRest := atPlaceRings.Len()
	onlyAtPlaceRest := atPlaceRings.Difference(elsewhereRings).Len()
	seenElsewhere := elsewhereRings.Len()

	percent := func(count int) float64 {
		return float64(count) / float64(total) * 100
	}

	summary := []SummaryRow{
		{CategoryTotal, total, 100},
		{CategorySeenRestOfRange, seenRest, percent(seenRest)},
		{CategoryOnlyDuringMoulting, onlyDuringMoulting, percent(onlyDuringMoulting)},
		{CategorySeenAtPlaceRest, seenAtPlaceRest, percent(seenAtPlaceRest)},
		{CategoryOnlyAtPlaceRest, onlyAtPlaceRest, percent(onlyAtPlaceRest)},
		{CategorySeenElsewhere, seenElsewhere, percent(seenElsewhere)},
	}

	return &Result{
		Parameters:      p,
		MoultingRings:   moultingRings,
		Moulting:        moulting,
		RestOfRange:     rest,
		AtMoultingPlace: atPlace,
		Elsewhere:       elsewhere,
		Summary:         summary,
	}, nil
}

// matches reports whether a sighting falls under the moulting definition.
// Records whose month cannot be coerced never match a period window.
func (d Definition) matches(s *model.Sighting) bool {
	switch d.Kind {
	case DefinitionPeriod:
		m, ok := s.MonthValue()
		return ok && monthInWindow(m, d.StartMonth, d.EndMonth)
	case DefinitionStatus:
		if d.Status == "" || d.Status == StatusAll {
			return true
		}
		return strings.TrimSpace(s.Status) == d.Status
	default:
		return false
	}
}

// monthInWindow checks membership in an inclusive month window. A start
// greater than the end wraps around the year boundary (e.g. Nov-Feb).
func monthInWindow(month, start, end int) bool {
	if start <= end {
		return month >= start && month <= end
	}
	return month >= start || month <= end
}

func ringsOf(t model.Table) ringset.Set {
	rings := ringset.New()
	for _, s := range t {
		rings.Add(s.NormalizedRing())
	}
	return rings
}

// PlaceCount aggregates one place over a drill-down subset.
type PlaceCount struct {
	Place     string `json:"place"`
	Rings     int    `json:"rings"`
	Sightings int    `json:"sightings"`
}

// PlaceDistribution counts distinct rings and sightings per place,
// ordered by distinct rings descending, then place name.
func PlaceDistribution(t model.Table) []PlaceCount {
	rings := make(map[string]ringset.Set)
	sightings := make(map[string]int)
	for _, s := range t {
		place := strings.TrimSpace(s.Place)
		if rings[place] == nil {
			rings[place] = ringset.New()
		}
		rings[place].Add(s.NormalizedRing())
		sightings[place]++
	}

	out := make([]PlaceCount, 0, len(rings))
	for place, set := range rings {
		out = append(out, PlaceCount{Place: place, Rings: set.Len(), Sightings: sightings[place]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rings != out[j].Rings {
			return out[i].Rings > out[j].Rings
		}
		return out[i].Place < out[j].Place
	})
	return out
}

// MonthCount aggregates one calendar month over a drill-down subset.
type MonthCount struct {
	Month     int `json:"month"`
	Rings     int `json:"rings"`
	Sightings int `json:"sightings"`
}

// MonthlyDistribution counts distinct rings and sightings per calendar
// month. All twelve months are present, empty ones with zero counts.
func MonthlyDistribution(t model.Table) []MonthCount {
	rings := make(map[int]ringset.Set)
	sightings := make(map[int]int)
	for _, s := range t {
		m, ok := s.MonthValue()
		if !ok || m < 1 || m > 12 {
			continue
		}
		if rings[m] == nil {
			rings[m] = ringset.New()
		}
		rings[m].Add(s.NormalizedRing())
		sightings[m]++
	}

	out := make([]MonthCount, 12)
	for m := 1; m <= 12; m++ {
		out[m-1] = MonthCount{Month: m, Sightings: sightings[m]}
		if rings[m] != nil {
			out[m-1].Rings = rings[m].Len()
		}
	}
	return out
}
