// Package rebar recovers reinforcement ownership from bar names.
//
// The exchange format enumerates reinforcing bars flatly, with no
// structural link to the column each bar belongs to; the only clue is
// the bar's free-text name, whose format varies by authoring session.
// Build parses every bar name once, up front, and produces an Index
// from owner tag (e.g. "P12") to the multiset of bar diameters in
// millimeters. Bars whose name yields no owner tag, or no positive
// diameter, are dropped and counted.
package rebar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lfarruda/ifctakeoff/internal/bim"
)

// Index maps an owner tag to the diameters indexed for it. An Index is
// a pure function of the bar set it was built from: rebuilding for the
// next file produces a fresh value, never a merge.
type Index struct {
	owners  map[string][]float64
	indexed int
	dropped int
}

// Build parses the full bar set and returns a new Index.
func Build(bars []bim.Rebar) *Index {
	ix := &Index{owners: make(map[string][]float64)}
	for _, bar := range bars {
		m, ok := findOwner(bar.Name)
		if !ok {
			// Unparsable name. Not an error; the authoring tool also
			// emits stirrups and distribution bars named freely.
			ix.dropped++
			continue
		}
		d, ok := findDiameter(bar, m)
		if !ok || d <= 0 {
			ix.dropped++
			continue
		}
		for i := 0; i < m.quantity; i++ {
			ix.owners[m.owner] = append(ix.owners[m.owner], d)
		}
		ix.indexed++
	}
	return ix
}

// Lookup returns the diameters indexed for the exact owner tag. There
// is no fuzzy or partial matching.
func (ix *Index) Lookup(owner string) ([]float64, bool) {
	d, ok := ix.owners[owner]
	return d, ok
}

// Indexed returns the number of bars that contributed to the index.
func (ix *Index) Indexed() int { return ix.indexed }

// Dropped returns the number of bars excluded from the index because
// no owner tag or no positive diameter could be extracted.
func (ix *Index) Dropped() int { return ix.dropped }

// Owners returns the indexed owner tags, sorted, for diagnostics.
func (ix *Index) Owners() []string {
	out := make([]string, 0, len(ix.owners))
	for o := range ix.owners {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// FormatSpec renders a diameter multiset as a reinforcement
// description: counts grouped per diameter, largest diameter first,
// e.g. "4 ø12.5 + 2 ø10.0".
func FormatSpec(diameters []float64) string {
	counts := make(map[float64]int)
	for _, d := range diameters {
		counts[d]++
	}
	distinct := make([]float64, 0, len(counts))
	for d := range counts {
		distinct = append(distinct, d)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))

	parts := make([]string, 0, len(distinct))
	for _, d := range distinct {
		parts = append(parts, fmt.Sprintf("%d ø%.1f", counts[d], d))
	}
	return strings.Join(parts, " + ")
}

// ownerMatch is the result of owner-tag extraction: the tag, the bar
// quantity it stands for, and the offset just past the tag in the name
// (where trailing-decimal diameter extraction resumes).
type ownerMatch struct {
	owner    string
	quantity int
	end      int
}

// Owner-tag patterns, most reliable first. The anchored
// leading-integer form ("2 P4 ...") is how the authoring tool writes
// bar schedules; a bare tag anywhere in the text is ambiguous and only
// tried last.
var (
	anchoredQtyPattern = regexp.MustCompile(`^\s*(\d+)\s*[xX]?\s*([A-Za-z]\d+)\b`)
	anchoredPattern    = regexp.MustCompile(`^\s*([A-Za-z]\d+)\b`)
	anywherePattern    = regexp.MustCompile(`\b([A-Za-z]\d+)\b`)
)

// ownerStrategies are applied in order; the first match wins.
var ownerStrategies = []func(string) (ownerMatch, bool){
	matchAnchoredQuantity,
	matchAnchored,
	matchAnywhere,
}

func findOwner(name string) (ownerMatch, bool) {
	if name == "" {
		return ownerMatch{}, false
	}
	for _, strategy := range ownerStrategies {
		if m, ok := strategy(name); ok {
			return m, true
		}
	}
	return ownerMatch{}, false
}

func matchAnchoredQuantity(name string) (ownerMatch, bool) {
	loc := anchoredQtyPattern.FindStringSubmatchIndex(name)
	if loc == nil {
		return ownerMatch{}, false
	}
	qty, err := strconv.Atoi(name[loc[2]:loc[3]])
	if err != nil || qty <= 0 {
		return ownerMatch{}, false
	}
	return ownerMatch{
		owner:    name[loc[4]:loc[5]],
		quantity: qty,
		end:      loc[5],
	}, true
}

func matchAnchored(name string) (ownerMatch, bool) {
	loc := anchoredPattern.FindStringSubmatchIndex(name)
	if loc == nil {
		return ownerMatch{}, false
	}
	return ownerMatch{owner: name[loc[2]:loc[3]], quantity: 1, end: loc[3]}, true
}

func matchAnywhere(name string) (ownerMatch, bool) {
	loc := anywherePattern.FindStringSubmatchIndex(name)
	if loc == nil {
		return ownerMatch{}, false
	}
	return ownerMatch{owner: name[loc[2]:loc[3]], quantity: 1, end: loc[3]}, true
}

// Diameter patterns. %%C is the authoring tool's escape for the
// diameter glyph; decimals may use a comma, the schedules come out of
// pt-BR sessions as often as not.
var (
	escapePattern  = regexp.MustCompile(`%%[Cc]\s*(\d+(?:[.,]\d+)?)`)
	glyphPattern   = regexp.MustCompile(`[øØφΦ]\s*(\d+(?:[.,]\d+)?)`)
	decimalPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// diameterStrategies are applied in order; the first success wins.
var diameterStrategies = []func(bim.Rebar, ownerMatch) (float64, bool){
	diameterFromEscape,
	diameterFromGlyph,
	diameterAfterOwner,
	diameterFromAttribute,
}

func findDiameter(bar bim.Rebar, m ownerMatch) (float64, bool) {
	for _, strategy := range diameterStrategies {
		if d, ok := strategy(bar, m); ok {
			return d, true
		}
	}
	return 0, false
}

func diameterFromEscape(bar bim.Rebar, _ ownerMatch) (float64, bool) {
	return captureDecimal(escapePattern, bar.Name)
}

func diameterFromGlyph(bar bim.Rebar, _ ownerMatch) (float64, bool) {
	return captureDecimal(glyphPattern, bar.Name)
}

// diameterAfterOwner takes the first decimal number following the
// owner tag in the name.
func diameterAfterOwner(bar bim.Rebar, m ownerMatch) (float64, bool) {
	if m.end >= len(bar.Name) {
		return 0, false
	}
	s := decimalPattern.FindString(bar.Name[m.end:])
	if s == "" {
		return 0, false
	}
	return parseDecimal(s)
}

// diameterFromAttribute falls back to the physical nominal-diameter
// attribute, which the format stores in meters.
func diameterFromAttribute(bar bim.Rebar, _ ownerMatch) (float64, bool) {
	if bar.NominalDiameter <= 0 {
		return 0, false
	}
	return bar.NominalDiameter * 1000, true
}

func captureDecimal(re *regexp.Regexp, s string) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return parseDecimal(m[1])
}

func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
