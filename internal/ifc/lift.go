package ifc

import (
	"sort"

	"github.com/lfarruda/ifctakeoff/internal/bim"
)

// Entity types consumed by the engine. Attribute positions follow the
// IFC2X3 schema, which is what the structural tool exports.
const (
	typColumn        = "IFCCOLUMN"
	typBar           = "IFCREINFORCINGBAR"
	typStorey        = "IFCBUILDINGSTOREY"
	typRelContained  = "IFCRELCONTAINEDINSPATIALSTRUCTURE"
	typRelProperties = "IFCRELDEFINESBYPROPERTIES"
	typRelMaterial   = "IFCRELASSOCIATESMATERIAL"
	typPropertySet   = "IFCPROPERTYSET"
	typPropertyValue = "IFCPROPERTYSINGLEVALUE"
	typMaterial      = "IFCMATERIAL"
	typShape         = "IFCPRODUCTDEFINITIONSHAPE"
	typShapeRep      = "IFCSHAPEREPRESENTATION"

	typPoint       = "IFCCARTESIANPOINT"
	typPolyline    = "IFCPOLYLINE"
	typProfile     = "IFCARBITRARYCLOSEDPROFILEDEF"
	typRectProfile = "IFCRECTANGLEPROFILEDEF"
	typExtruded    = "IFCEXTRUDEDAREASOLID"
	typBrep        = "IFCFACETEDBREP"
	typClosedShell = "IFCCLOSEDSHELL"
	typFace        = "IFCFACE"
	typFaceBound   = "IFCFACEBOUND"
	typFaceOuter   = "IFCFACEOUTERBOUND"
	typPolyLoop    = "IFCPOLYLOOP"
	typMapped      = "IFCMAPPEDITEM"
	typRepMap      = "IFCREPRESENTATIONMAP"
	typBox         = "IFCBOUNDINGBOX"
)

// lifter resolves references while lifting the generic entity map into
// the typed model.
type lifter struct {
	entities map[int]*entity

	storeyOf   map[int]string           // element id -> storey name
	psetsOf    map[int][]bim.PropertySet // element id -> property bags
	materialOf map[int]string           // element id -> material name
}

func liftModel(entities map[int]*entity) (*bim.Model, error) {
	lf := &lifter{
		entities:   entities,
		storeyOf:   make(map[int]string),
		psetsOf:    make(map[int][]bim.PropertySet),
		materialOf: make(map[int]string),
	}
	lf.indexRelations()

	model := &bim.Model{}
	for _, id := range lf.idsOfType(typColumn) {
		model.Columns = append(model.Columns, lf.liftColumn(id))
	}
	for _, id := range lf.idsOfType(typBar) {
		model.Bars = append(model.Bars, lf.liftBar(id))
	}
	return model, nil
}

// idsOfType returns matching instance ids in ascending order, so a
// load is deterministic regardless of map iteration.
func (lf *lifter) idsOfType(typ string) []int {
	var ids []int
	for id, e := range lf.entities {
		if e.typ == typ {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (lf *lifter) get(id int) *entity {
	return lf.entities[id]
}

func (lf *lifter) deref(e *entity, i int) *entity {
	id, ok := e.ref(i)
	if !ok {
		return nil
	}
	return lf.get(id)
}

// indexRelations inverts the objectified relationships: containment,
// property definitions, material associations. The relations point
// from the relationship entity to the elements, so one pass up front
// builds the per-element lookup the column lift needs.
func (lf *lifter) indexRelations() {
	for _, e := range lf.entities {
		switch e.typ {
		case typRelContained:
			structure := lf.deref(e, 5)
			if structure == nil {
				continue
			}
			name := structure.str(2)
			for _, elem := range refsIn(e.list(4)) {
				lf.storeyOf[elem] = name
			}
		case typRelProperties:
			pset := lf.deref(e, 5)
			if pset == nil || pset.typ != typPropertySet {
				continue
			}
			bag := lf.liftPropertySet(pset)
			for _, elem := range refsIn(e.list(4)) {
				lf.psetsOf[elem] = append(lf.psetsOf[elem], bag)
			}
		case typRelMaterial:
			material := lf.deref(e, 5)
			if material == nil || material.typ != typMaterial {
				// Layer sets and usages are not lifted; the engine
				// only reports a plain material name.
				continue
			}
			for _, elem := range refsIn(e.list(4)) {
				lf.materialOf[elem] = material.str(0)
			}
		}
	}
}

func refsIn(list []value) []int {
	var ids []int
	for _, v := range list {
		if v.kind == valRef {
			ids = append(ids, v.ref)
		}
	}
	return ids
}

func (lf *lifter) liftPropertySet(pset *entity) bim.PropertySet {
	bag := bim.PropertySet{
		Name:   pset.str(2),
		Values: make(map[string]float64),
	}
	for _, id := range refsIn(pset.list(4)) {
		prop := lf.get(id)
		if prop == nil || prop.typ != typPropertyValue {
			continue
		}
		if v, ok := prop.num(2); ok {
			bag.Values[prop.str(0)] = v
		}
	}
	return bag
}

func (lf *lifter) liftColumn(id int) *bim.Column {
	e := lf.get(id)
	col := &bim.Column{
		GlobalID:     e.str(0),
		Name:         e.str(2),
		Storey:       lf.storeyOf[id],
		Material:     lf.materialOf[id],
		PropertySets: lf.psetsOf[id],
	}
	if shape := lf.deref(e, 6); shape != nil && shape.typ == typShape {
		for _, repID := range refsIn(shape.list(2)) {
			rep := lf.get(repID)
			if rep == nil || rep.typ != typShapeRep {
				continue
			}
			col.Representations = append(col.Representations, lf.liftRepresentation(rep))
		}
	}
	return col
}

func (lf *lifter) liftRepresentation(rep *entity) bim.Representation {
	out := bim.Representation{Class: rep.str(2)}
	for _, itemID := range refsIn(rep.list(3)) {
		if n := lf.liftGeom(itemID); n != nil {
			out.Items = append(out.Items, n)
		}
	}
	return out
}

// liftGeom maps one geometry entity onto the tagged node union.
// Unhandled entity types yield nil and are dropped from the tree.
func (lf *lifter) liftGeom(id int) *bim.GeomNode {
	e := lf.get(id)
	if e == nil {
		return nil
	}
	switch e.typ {
	case typPoint:
		return liftPoint(e)

	case typPolyline:
		n := &bim.GeomNode{Kind: bim.KindPolyline}
		n.Elements = lf.liftGeomList(e.list(0))
		return n

	case typProfile:
		outer, _ := e.ref(2)
		return &bim.GeomNode{Kind: bim.KindProfile, Outer: lf.liftGeom(outer)}

	case typRectProfile:
		dx, _ := e.num(3)
		dy, _ := e.num(4)
		return &bim.GeomNode{Kind: bim.KindRectProfile, DX: dx, DY: dy}

	case typExtruded:
		profile, _ := e.ref(0)
		depth, _ := e.num(3)
		return &bim.GeomNode{
			Kind:    bim.KindExtrudedSolid,
			Profile: lf.liftGeom(profile),
			Depth:   depth,
		}

	case typBrep:
		n := &bim.GeomNode{Kind: bim.KindBrep}
		if shell := lf.deref(e, 0); shell != nil && shell.typ == typClosedShell {
			for _, faceID := range refsIn(shell.list(0)) {
				if face := lf.liftFace(faceID); face != nil {
					n.Faces = append(n.Faces, face)
				}
			}
		}
		return n

	case typMapped:
		if repMap := lf.deref(e, 0); repMap != nil && repMap.typ == typRepMap {
			if rep := lf.deref(repMap, 1); rep != nil && rep.typ == typShapeRep {
				source := &bim.GeomNode{Kind: bim.KindCollection}
				for _, itemID := range refsIn(rep.list(3)) {
					if item := lf.liftGeom(itemID); item != nil {
						source.Elements = append(source.Elements, item)
					}
				}
				return &bim.GeomNode{Kind: bim.KindMapped, Source: source}
			}
		}
		return nil

	case typBox:
		corner, _ := e.ref(0)
		dx, _ := e.num(1)
		dy, _ := e.num(2)
		dz, _ := e.num(3)
		return &bim.GeomNode{
			Kind:   bim.KindBox,
			Corner: lf.liftGeom(corner),
			DX:     dx, DY: dy, DZ: dz,
		}

	default:
		return nil
	}
}

func liftPoint(e *entity) *bim.GeomNode {
	coords := e.list(0)
	var xyz [3]float64
	n := 0
	for _, c := range coords {
		if n >= 3 {
			break
		}
		v, ok := c.number()
		if !ok {
			return nil
		}
		xyz[n] = v
		n++
	}
	if n < 2 {
		return nil
	}
	if n == 2 {
		return bim.Point(xyz[0], xyz[1])
	}
	return bim.Point3(xyz[0], xyz[1], xyz[2])
}

func (lf *lifter) liftFace(id int) *bim.GeomNode {
	face := lf.get(id)
	if face == nil || face.typ != typFace {
		return nil
	}
	n := &bim.GeomNode{Kind: bim.KindFace}
	for _, boundID := range refsIn(face.list(0)) {
		bound := lf.get(boundID)
		if bound == nil || (bound.typ != typFaceBound && bound.typ != typFaceOuter) {
			continue
		}
		loop := lf.deref(bound, 0)
		if loop == nil || loop.typ != typPolyLoop {
			continue
		}
		ln := &bim.GeomNode{Kind: bim.KindLoop}
		ln.Elements = lf.liftGeomList(loop.list(0))
		n.Bounds = append(n.Bounds, ln)
	}
	return n
}

func (lf *lifter) liftGeomList(list []value) []*bim.GeomNode {
	var nodes []*bim.GeomNode
	for _, id := range refsIn(list) {
		if n := lf.liftGeom(id); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (lf *lifter) liftBar(id int) bim.Rebar {
	e := lf.get(id)
	bar := bim.Rebar{Name: e.str(2)}
	if d, ok := e.num(9); ok {
		bar.NominalDiameter = d
	}
	return bar
}
