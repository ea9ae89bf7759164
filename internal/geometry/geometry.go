// Package geometry resolves a column's cross-section dimensions.
//
// Two strategies, property bag first: a recognized dimension pair in
// one of the column's property bags is authoritative; otherwise the
// shape tree is walked and an axis-aligned bounding box computed from
// every coordinate found in the solid-body representations. Axis and
// footprint curves are ignored, they describe placement, not section.
package geometry

import (
	"fmt"
	"math"

	"github.com/lfarruda/ifctakeoff/internal/bim"
)

// Unresolved is the sentinel section string when no geometry could be
// recovered.
const Unresolved = "N/A"

// metersThreshold drives the unit heuristic: a dimension below it is
// assumed to be meters and scaled to centimeters. A true sub-3 cm
// section would be misread; accepted, no export observed so far
// carries one.
const metersThreshold = 3.0

// degenerateSpread is the raw extent below which an axis counts as
// collapsed.
const degenerateSpread = 1e-6

// Result is a resolved cross-section. Width and Depth are normalized
// centimeters with Width <= Depth. Height and the planar centroid are
// only available on the bounding-box path; they stay zero when the
// property bag answered or when the column has no usable geometry.
type Result struct {
	Section string
	OK      bool

	Width, Depth float64
	Height       float64
	CentroidX    float64
	CentroidY    float64
}

// VolumeM3 estimates the column volume in cubic meters from the planar
// area times the height. Zero when height is unknown.
func (r Result) VolumeM3() float64 {
	return r.Width * r.Depth * r.Height / 1e6
}

// Resolve derives the cross-section of one column.
func Resolve(col *bim.Column) Result {
	if w, d, ok := fromPropertyBag(col); ok {
		return sectionResult(w, d, Result{})
	}

	ext := collectExtent(col)
	if !ext.any {
		return Result{Section: Unresolved}
	}

	rawW := ext.maxX - ext.minX
	rawD := ext.maxY - ext.minY
	if rawW < degenerateSpread || rawD < degenerateSpread {
		return Result{Section: Unresolved}
	}

	// The unit decision made for the plan dimensions carries over to
	// the height and centroid: all extents come from the same
	// coordinate space.
	scale := 1.0
	if rawW < metersThreshold || rawD < metersThreshold {
		scale = 100
	}
	extra := Result{
		CentroidX: (ext.minX + ext.maxX) / 2 * scale,
		CentroidY: (ext.minY + ext.maxY) / 2 * scale,
	}
	if ext.hasZ {
		extra.Height = (ext.maxZ - ext.minZ) * scale
	}
	return sectionResult(rawW, rawD, extra)
}

// sectionResult normalizes and formats the two plan dimensions,
// smaller first.
func sectionResult(rawW, rawD float64, extra Result) Result {
	w := normalizeDim(rawW)
	d := normalizeDim(rawD)
	if w > d {
		w, d = d, w
	}
	extra.Section = fmt.Sprintf("%dx%d", int(math.Round(w)), int(math.Round(d)))
	extra.OK = true
	extra.Width = w
	extra.Depth = d
	return extra
}

// normalizeDim applies the meter/centimeter heuristic to one axis.
func normalizeDim(v float64) float64 {
	if v < metersThreshold {
		return v * 100
	}
	return v
}

// Aliases accepted for the dimension fields of a property bag, in
// lookup order.
var (
	widthAliases = []string{"Width", "b"}
	depthAliases = []string{"Depth", "h"}
)

// fromPropertyBag looks for a bag carrying both plan dimensions. The
// first bag with a complete pair wins and skips traversal entirely.
func fromPropertyBag(col *bim.Column) (w, d float64, ok bool) {
	for _, ps := range col.PropertySets {
		w, wok := bagValue(ps, widthAliases)
		d, dok := bagValue(ps, depthAliases)
		if wok && dok {
			return w, d, true
		}
	}
	return 0, 0, false
}

func bagValue(ps bim.PropertySet, aliases []string) (float64, bool) {
	for _, a := range aliases {
		if v, ok := ps.Values[a]; ok {
			return v, true
		}
	}
	return 0, false
}

// bodyClasses are the representation classes that carry section
// geometry.
var bodyClasses = map[string]bool{
	bim.ClassSweptSolid:   true,
	bim.ClassBrep:         true,
	bim.ClassBoundingBox:  true,
	bim.ClassTessellation: true,
	bim.ClassFacetation:   true,
}

// childAccessors maps each composite node kind to the relations that
// yield its children. One dispatcher walks this table; node kinds
// absent from it and without a terminal contribution are ignored.
var childAccessors = map[bim.GeomKind][]func(*bim.GeomNode) []*bim.GeomNode{
	bim.KindCollection:    {elements},
	bim.KindPolyline:      {elements},
	bim.KindLoop:          {elements},
	bim.KindProfile:       {single(func(n *bim.GeomNode) *bim.GeomNode { return n.Outer })},
	bim.KindBrep:          {func(n *bim.GeomNode) []*bim.GeomNode { return n.Faces }},
	bim.KindFace:          {func(n *bim.GeomNode) []*bim.GeomNode { return n.Bounds }},
	bim.KindExtrudedSolid: {single(func(n *bim.GeomNode) *bim.GeomNode { return n.Profile })},
	bim.KindMapped:        {single(func(n *bim.GeomNode) *bim.GeomNode { return n.Source })},
}

func elements(n *bim.GeomNode) []*bim.GeomNode { return n.Elements }

func single(get func(*bim.GeomNode) *bim.GeomNode) func(*bim.GeomNode) []*bim.GeomNode {
	return func(n *bim.GeomNode) []*bim.GeomNode {
		if c := get(n); c != nil {
			return []*bim.GeomNode{c}
		}
		return nil
	}
}

// extent accumulates the axis-aligned bounds of every coordinate seen.
type extent struct {
	any              bool
	minX, maxX       float64
	minY, maxY       float64
	hasZ             bool
	minZ, maxZ       float64
}

func (e *extent) addXY(x, y float64) {
	if !e.any {
		e.minX, e.maxX = x, x
		e.minY, e.maxY = y, y
		e.any = true
		return
	}
	e.minX = math.Min(e.minX, x)
	e.maxX = math.Max(e.maxX, x)
	e.minY = math.Min(e.minY, y)
	e.maxY = math.Max(e.maxY, y)
}

func (e *extent) addZ(z float64) {
	if !e.hasZ {
		e.minZ, e.maxZ = z, z
		e.hasZ = true
		return
	}
	e.minZ = math.Min(e.minZ, z)
	e.maxZ = math.Max(e.maxZ, z)
}

func collectExtent(col *bim.Column) extent {
	var ext extent
	for _, rep := range col.Representations {
		if !bodyClasses[rep.Class] {
			continue
		}
		for _, item := range rep.Items {
			walk(item, &ext)
		}
	}
	return ext
}

// walk applies the terminal contribution of a node, then recurses via
// the accessor table. The tree is acyclic, so no visited set is kept.
func walk(n *bim.GeomNode, ext *extent) {
	if n == nil {
		return
	}

	switch n.Kind {
	case bim.KindPoint:
		ext.addXY(n.X, n.Y)
		if n.HasZ {
			ext.addZ(n.Z)
		}
	case bim.KindRectProfile:
		ext.addXY(-n.DX/2, -n.DY/2)
		ext.addXY(n.DX/2, n.DY/2)
	case bim.KindBox:
		var cx, cy, cz float64
		if n.Corner != nil {
			cx, cy, cz = n.Corner.X, n.Corner.Y, n.Corner.Z
		}
		ext.addXY(cx, cy)
		ext.addXY(cx+n.DX, cy+n.DY)
		ext.addZ(cz)
		ext.addZ(cz + n.DZ)
	case bim.KindExtrudedSolid:
		if n.Depth > 0 {
			ext.addZ(0)
			ext.addZ(n.Depth)
		}
	}

	for _, accessor := range childAccessors[n.Kind] {
		for _, child := range accessor(n) {
			walk(child, ext)
		}
	}
}
