// Package takeoff assembles one reviewable record per structural
// column: identity, floor, cross-section and reinforcement. The
// reinforcement index is built over the entire bar set before the
// first column is touched; looking up against a partial index would
// silently produce empty reinforcement for every column, so the
// ordering is a hard dependency, not an optimization.
//
// A column that cannot be resolved never aborts the batch; it degrades
// to the sentinel values and bumps a summary counter.
package takeoff

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/lfarruda/ifctakeoff/internal/bim"
	"github.com/lfarruda/ifctakeoff/internal/geometry"
	"github.com/lfarruda/ifctakeoff/internal/rebar"
	"github.com/lfarruda/ifctakeoff/pkg/types"
)

const (
	// DefaultFloor stands in for a column with no containment
	// reference.
	DefaultFloor = "Ground Floor"

	// DefaultName stands in for a column the authoring tool left
	// unnamed.
	DefaultName = "S/N"

	// StatusInitial is the review-workflow state every record starts
	// in.
	StatusInitial = "A CONFERIR"

	// ReinforcementUnresolved marks a column with no indexed bars for
	// manual follow-up.
	ReinforcementUnresolved = "VERIFICAR MANUALMENTE"

	// placeholder replaces a key component that sanitizes to nothing.
	placeholder = "X"

	// idDelimiter joins the composite key components. None of the
	// components can contain it: two are sanitized to alphanumerics,
	// and identifiers in this format never carry dashes.
	idDelimiter = "-"
)

// Options tunes record assembly.
type Options struct {
	// ExtendedFields populates estimated height, estimated volume,
	// material name and planar centroid on each record.
	ExtendedFields bool
}

// Summary holds counters from one processing run.
type Summary struct {
	Columns              int
	BarsIndexed          int
	BarsDropped          int
	GeometryUnresolved   int
	ReinforcementMissing int
}

// Clean reports whether every column resolved fully.
func (s Summary) Clean() bool {
	return s.GeometryUnresolved == 0 && s.ReinforcementMissing == 0
}

// Process assembles records for every column of the model, in floor
// then natural name order. Progress and degradation notices go to w.
func Process(model *bim.Model, projectRef string, opts Options, w io.Writer) ([]types.ColumnRecord, Summary) {
	ix := rebar.Build(model.Bars)

	summary := Summary{
		Columns:     len(model.Columns),
		BarsIndexed: ix.Indexed(),
		BarsDropped: ix.Dropped(),
	}
	fmt.Fprintf(w, "indexed %d reinforcement bars (%d dropped)\n", ix.Indexed(), ix.Dropped())

	records := make([]types.ColumnRecord, 0, len(model.Columns))
	for _, col := range model.Columns {
		rec, geo := assemble(col, projectRef, ix, opts)
		if !geo.OK {
			summary.GeometryUnresolved++
			fmt.Fprintf(w, "geometry unresolved for %s (%s)\n", rec.Name, rec.Floor)
		}
		if rec.Reinforcement == ReinforcementUnresolved {
			summary.ReinforcementMissing++
		}
		records = append(records, rec)
	}

	Sort(records)

	fmt.Fprintf(w, "\ncolumns: %d, sections unresolved: %d, reinforcement missing: %d\n",
		summary.Columns, summary.GeometryUnresolved, summary.ReinforcementMissing)

	return records, summary
}

func assemble(col *bim.Column, projectRef string, ix *rebar.Index, opts Options) (types.ColumnRecord, geometry.Result) {
	name := col.Name
	if name == "" {
		name = DefaultName
	}
	floor := col.Storey
	if floor == "" {
		floor = DefaultFloor
	}

	geo := geometry.Resolve(col)

	// Lookup is against the raw display name, exactly as the bar
	// schedules reference it; the sanitized form is only for the key.
	reinforcement := ReinforcementUnresolved
	if diams, ok := ix.Lookup(col.Name); ok {
		reinforcement = rebar.FormatSpec(diams)
	}

	rec := types.ColumnRecord{
		UniqueID: strings.Join([]string{
			Sanitize(name), col.GlobalID, Sanitize(floor), projectRef,
		}, idDelimiter),
		ProjectRef:    projectRef,
		Name:          name,
		Section:       geo.Section,
		Reinforcement: reinforcement,
		Floor:         floor,
		Status:        StatusInitial,
	}

	if opts.ExtendedFields {
		rec.Material = col.Material
		if geo.OK {
			rec.Height = geo.Height
			rec.Volume = geo.VolumeM3()
			rec.CentroidX = geo.CentroidX
			rec.CentroidY = geo.CentroidY
		}
	}
	return rec, geo
}

// Sanitize strips everything non-alphanumeric and upper-cases the
// rest. An input with nothing left becomes the fixed placeholder so
// the composite key never has an empty component.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if b.Len() == 0 {
		return placeholder
	}
	return b.String()
}

// Sort orders records by floor, then by natural comparison of the
// column names, so P2 sorts before P10.
func Sort(records []types.ColumnRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Floor != records[j].Floor {
			return records[i].Floor < records[j].Floor
		}
		return NaturalCompare(records[i].Name, records[j].Name) < 0
	})
}
