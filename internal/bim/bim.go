// Package bim defines the in-memory model of a BIM exchange graph:
// the structural columns, the independently enumerated reinforcing
// bars, and a tagged-union geometry tree. The model is produced by a
// loader (internal/ifc) and is read-only from the engine's point of
// view.
package bim

// Model is one loaded exchange file. Columns and bars are enumerated
// independently; the file format carries no ownership link between
// them.
type Model struct {
	Columns []*Column
	Bars    []Rebar
}

// Column is one structural vertical member.
type Column struct {
	// GlobalID is the globally unique, opaque identifier from the
	// source graph.
	GlobalID string

	// Name is the display name; empty when the authoring tool left it
	// unset.
	Name string

	// Storey is the name of the containing storey, empty when the
	// column has no containment reference.
	Storey string

	// Material is the associated material name, when one is linked.
	Material string

	// PropertySets are the tool-specific property bags attached to the
	// column. Only numeric single-values are lifted; the engine has no
	// use for the rest.
	PropertySets []PropertySet

	// Representations is the shape tree, possibly empty.
	Representations []Representation
}

// PropertySet is one named property bag.
type PropertySet struct {
	Name   string
	Values map[string]float64
}

// Rebar is one reinforcing-bar entity. Its owning column is not linked
// structurally; ownership is recovered by parsing Name.
type Rebar struct {
	// Name is free text whose format varies by authoring session.
	Name string

	// NominalDiameter is the physical diameter attribute in meters,
	// 0 when absent.
	NominalDiameter float64
}

// Representation classes as tagged by the authoring tool. Only the
// solid-body, mesh, bounding-box and facet classes carry usable
// cross-section geometry; axis and footprint curves do not.
const (
	ClassSweptSolid   = "SweptSolid"
	ClassBrep         = "Brep"
	ClassBoundingBox  = "BoundingBox"
	ClassTessellation = "Tessellation"
	ClassFacetation   = "Facetation"
	ClassAxis         = "Axis"
	ClassCurve2D      = "Curve2D"
)

// Representation is one shape representation of a column.
type Representation struct {
	// Class is the representation type tag (ClassSweptSolid, ...).
	Class string
	Items []*GeomNode
}

// GeomKind tags the variant of a GeomNode.
type GeomKind int

const (
	// KindPoint is a terminal coordinate node (X, Y and optionally Z).
	KindPoint GeomKind = iota

	// KindCollection is a plain sequence of child nodes.
	KindCollection

	// KindPolyline is an ordered run of points.
	KindPolyline

	// KindProfile is a closed profile exposing an outer boundary curve.
	KindProfile

	// KindRectProfile is a parameterized rectangle profile centered on
	// its position (DX by DY).
	KindRectProfile

	// KindExtrudedSolid sweeps Profile through Depth.
	KindExtrudedSolid

	// KindBrep is a faceted boundary representation exposing a face set.
	KindBrep

	// KindFace exposes its polygon loops via Bounds.
	KindFace

	// KindLoop is a polygon: an ordered run of points in Elements.
	KindLoop

	// KindMapped is an instanced sub-representation reached via Source.
	KindMapped

	// KindBox is an axis-aligned box: Corner plus DX/DY/DZ extents.
	KindBox
)

// GeomNode is one node of the geometry tree. Exactly the fields of the
// tagged Kind are meaningful; all others are zero. The tree is acyclic
// in practice, so traversals need no cycle guard.
type GeomNode struct {
	Kind GeomKind

	// KindPoint.
	X, Y, Z float64
	HasZ    bool

	// KindCollection, KindPolyline, KindLoop.
	Elements []*GeomNode

	// KindProfile boundary curve.
	Outer *GeomNode

	// KindBrep face set.
	Faces []*GeomNode

	// KindFace polygon loops.
	Bounds []*GeomNode

	// KindExtrudedSolid.
	Profile *GeomNode
	Depth   float64

	// KindMapped sub-representation.
	Source *GeomNode

	// KindRectProfile and KindBox extents; Corner only for KindBox.
	DX, DY, DZ float64
	Corner     *GeomNode
}

// Point builds a terminal 2D coordinate node.
func Point(x, y float64) *GeomNode {
	return &GeomNode{Kind: KindPoint, X: x, Y: y}
}

// Point3 builds a terminal 3D coordinate node.
func Point3(x, y, z float64) *GeomNode {
	return &GeomNode{Kind: KindPoint, X: x, Y: y, Z: z, HasZ: true}
}
