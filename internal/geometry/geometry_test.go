package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfarruda/ifctakeoff/internal/bim"
)

// squareContour is a 1 m x 1 m closed contour expressed in meters.
func squareContour() *bim.GeomNode {
	return &bim.GeomNode{
		Kind: bim.KindPolyline,
		Elements: []*bim.GeomNode{
			bim.Point(0, 0),
			bim.Point(1, 0),
			bim.Point(1, 1),
			bim.Point(0, 1),
			bim.Point(0, 0),
		},
	}
}

func bodyColumn(items ...*bim.GeomNode) *bim.Column {
	return &bim.Column{
		Representations: []bim.Representation{
			{Class: bim.ClassSweptSolid, Items: items},
		},
	}
}

func TestResolveSquareContourInMeters(t *testing.T) {
	col := bodyColumn(&bim.GeomNode{Kind: bim.KindProfile, Outer: squareContour()})

	got := Resolve(col)
	require.True(t, got.OK)
	assert.Equal(t, "100x100", got.Section)
	assert.InDelta(t, 50.0, got.CentroidX, 1e-9)
	assert.InDelta(t, 50.0, got.CentroidY, 1e-9)
}

func TestResolveNoRepresentation(t *testing.T) {
	got := Resolve(&bim.Column{})
	assert.False(t, got.OK)
	assert.Equal(t, Unresolved, got.Section)
}

func TestResolvePropertyBagWins(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]float64
		want   string
	}{
		{"canonical aliases", map[string]float64{"Width": 40, "Depth": 25}, "25x40"},
		{"short aliases", map[string]float64{"b": 19, "h": 60}, "19x60"},
		{"meter-scale values", map[string]float64{"b": 0.3, "h": 0.4}, "30x40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := bodyColumn(&bim.GeomNode{Kind: bim.KindRectProfile, DX: 999, DY: 999})
			col.PropertySets = []bim.PropertySet{{Name: "Dimensions", Values: tt.values}}

			got := Resolve(col)
			require.True(t, got.OK)
			// The bag is authoritative; the 999x999 profile must not
			// be consulted.
			assert.Equal(t, tt.want, got.Section)
		})
	}
}

func TestResolveIncompleteBagFallsThrough(t *testing.T) {
	col := bodyColumn(&bim.GeomNode{Kind: bim.KindRectProfile, DX: 0.3, DY: 0.4})
	col.PropertySets = []bim.PropertySet{
		{Name: "Dimensions", Values: map[string]float64{"Width": 40}},
	}

	got := Resolve(col)
	require.True(t, got.OK)
	assert.Equal(t, "30x40", got.Section)
}

func TestResolveExtrudedRectProfile(t *testing.T) {
	col := bodyColumn(&bim.GeomNode{
		Kind:    bim.KindExtrudedSolid,
		Depth:   3.0,
		Profile: &bim.GeomNode{Kind: bim.KindRectProfile, DX: 0.3, DY: 0.4},
	})

	got := Resolve(col)
	require.True(t, got.OK)
	assert.Equal(t, "30x40", got.Section)
	assert.InDelta(t, 300.0, got.Height, 1e-9)
	assert.InDelta(t, 0.36, got.VolumeM3(), 1e-9)
}

func TestResolveBoundingBoxNode(t *testing.T) {
	col := &bim.Column{
		Representations: []bim.Representation{
			{Class: bim.ClassBoundingBox, Items: []*bim.GeomNode{{
				Kind:   bim.KindBox,
				Corner: bim.Point3(0, 0, 0),
				DX:     0.19, DY: 0.19, DZ: 2.8,
			}}},
		},
	}

	got := Resolve(col)
	require.True(t, got.OK)
	assert.Equal(t, "19x19", got.Section)
	assert.InDelta(t, 280.0, got.Height, 1e-9)
}

func TestResolveMappedItem(t *testing.T) {
	col := bodyColumn(&bim.GeomNode{
		Kind:   bim.KindMapped,
		Source: &bim.GeomNode{Kind: bim.KindProfile, Outer: squareContour()},
	})

	got := Resolve(col)
	require.True(t, got.OK)
	assert.Equal(t, "100x100", got.Section)
}

func TestResolveFacetedBrep(t *testing.T) {
	loop := &bim.GeomNode{
		Kind: bim.KindLoop,
		Elements: []*bim.GeomNode{
			bim.Point3(0, 0, 0),
			bim.Point3(0.25, 0, 0),
			bim.Point3(0.25, 0.6, 2.9),
			bim.Point3(0, 0.6, 2.9),
		},
	}
	col := &bim.Column{
		Representations: []bim.Representation{
			{Class: bim.ClassBrep, Items: []*bim.GeomNode{{
				Kind: bim.KindBrep,
				Faces: []*bim.GeomNode{{
					Kind:   bim.KindFace,
					Bounds: []*bim.GeomNode{loop},
				}},
			}}},
		},
	}

	got := Resolve(col)
	require.True(t, got.OK)
	assert.Equal(t, "25x60", got.Section)
	assert.InDelta(t, 290.0, got.Height, 1e-9)
}

func TestResolveIgnoresAxisRepresentation(t *testing.T) {
	col := &bim.Column{
		Representations: []bim.Representation{
			{Class: bim.ClassAxis, Items: []*bim.GeomNode{squareContour()}},
		},
	}

	got := Resolve(col)
	assert.False(t, got.OK)
	assert.Equal(t, Unresolved, got.Section)
}

func TestResolveDegenerateBox(t *testing.T) {
	// All points on one vertical line: no plan extent.
	line := &bim.GeomNode{
		Kind: bim.KindPolyline,
		Elements: []*bim.GeomNode{
			bim.Point3(1, 1, 0),
			bim.Point3(1, 1, 3),
		},
	}
	got := Resolve(bodyColumn(line))
	assert.False(t, got.OK)
	assert.Equal(t, Unresolved, got.Section)
}

func TestNormalizePerAxis(t *testing.T) {
	// One axis below the meter threshold, one above: each is
	// normalized independently.
	contour := &bim.GeomNode{
		Kind: bim.KindPolyline,
		Elements: []*bim.GeomNode{
			bim.Point(0, 0),
			bim.Point(2.5, 0),
			bim.Point(2.5, 30),
			bim.Point(0, 30),
		},
	}
	got := Resolve(bodyColumn(contour))
	require.True(t, got.OK)
	assert.Equal(t, "30x250", got.Section)
}

func TestResolveCentimeterScalePassesThrough(t *testing.T) {
	col := bodyColumn(&bim.GeomNode{Kind: bim.KindRectProfile, DX: 30, DY: 45})
	got := Resolve(col)
	require.True(t, got.OK)
	assert.Equal(t, "30x45", got.Section)
}
