// pkg/dsf/document.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package dsf

import (
	"encoding/binary"
	gomath "math"

	"github.com/hotbso/sam-2-xp12/pkg/math"
)

// Placement is one object instance: an index into the object resource
// table plus world position and heading. Parameterized object types carry
// extra per-instance values in Params.
type Placement struct {
	DefIndex  int
	Pos       math.Point2LL
	Elevation float64
	Heading   float64
	Params    []float32
}

// PolygonPlacement is one polygon instance: an index into the polygon
// resource table, the resource-specific parameter (wall index for
// facades), and one winding of points.
type PolygonPlacement struct {
	DefIndex int
	Param    uint16
	Points   []math.Point2LL
}

// StringTable is a view of one resource string table atom. Entries are
// referenced by position; existing entries are never renumbered, new
// resources are only ever appended.
type StringTable struct {
	Strings []string
	atom    *Atom
}

// Index returns the position of s in the table.
func (st *StringTable) Index(s string) (int, bool) {
	for i, e := range st.Strings {
		if e == s {
			return i, true
		}
	}
	return 0, false
}

// Intern returns the index of s, appending it to the table first if it is
// not present yet.
func (st *StringTable) Intern(s string) int {
	if i, ok := st.Index(s); ok {
		return i
	}
	st.Strings = append(st.Strings, s)
	return len(st.Strings) - 1
}

// Tables is the mutable view of the definition and placement atoms of a
// Document. Mutations are written back into the owning atoms by Rebuild.
type Tables struct {
	Objects  *StringTable // OBJT
	Polygons *StringTable // POLY, empty table if the atom is absent

	ObjectPlacements  []Placement
	PolygonPlacements []PolygonPlacement

	defn, geod *Atom
	objp, plyp *Atom
}

// ExtractTables locates the definition and placement atoms of a decoded
// Document and returns views over them. A scenery DSF always carries the
// object table and the object placement list; their absence makes the file
// unsupported.
func ExtractTables(doc *Document) (*Tables, error) {
	defn := doc.Find(TagDefn)
	if defn == nil {
		return nil, &StructureError{Missing: TagDefn}
	}
	geod := doc.Find(TagGeod)
	if geod == nil {
		return nil, &StructureError{Missing: TagGeod}
	}

	objt := defn.Find(TagObjectDefs)
	if objt == nil {
		return nil, &StructureError{Missing: TagObjectDefs}
	}
	objp := geod.Find(TagObjects)
	if objp == nil {
		return nil, &StructureError{Missing: TagObjects}
	}

	t := &Tables{defn: defn, geod: geod, objp: objp}

	var err error
	if t.Objects, err = decodeStringTable(objt); err != nil {
		return nil, err
	}
	if poly := defn.Find(TagPolygonDefs); poly != nil {
		if t.Polygons, err = decodeStringTable(poly); err != nil {
			return nil, err
		}
	} else {
		t.Polygons = &StringTable{}
	}

	if t.ObjectPlacements, err = decodePlacements(objp); err != nil {
		return nil, err
	}
	if t.plyp = geod.Find(TagPolygons); t.plyp != nil {
		if t.PolygonPlacements, err = decodePolygonPlacements(t.plyp); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func decodeStringTable(a *Atom) (*StringTable, error) {
	st := &StringTable{atom: a}
	b := a.Raw
	for len(b) > 0 {
		i := 0
		for i < len(b) && b[i] != 0 {
			i++
		}
		if i == len(b) {
			return nil, formatErrorf(0, a.Tag, "unterminated string table entry")
		}
		st.Strings = append(st.Strings, string(b[:i]))
		b = b[i+1:]
	}
	return st, nil
}

func decodePlacements(a *Atom) ([]Placement, error) {
	var ps []Placement
	b := a.Raw
	for len(b) > 0 {
		if len(b) < 34 {
			return nil, formatErrorf(0, a.Tag, "truncated placement record: %d bytes left", len(b))
		}
		var p Placement
		p.DefIndex = int(binary.LittleEndian.Uint32(b))
		p.Pos[0] = gomath.Float64frombits(binary.LittleEndian.Uint64(b[4:]))
		p.Pos[1] = gomath.Float64frombits(binary.LittleEndian.Uint64(b[12:]))
		p.Elevation = gomath.Float64frombits(binary.LittleEndian.Uint64(b[20:]))
		p.Heading = float64(gomath.Float32frombits(binary.LittleEndian.Uint32(b[28:])))
		n := int(binary.LittleEndian.Uint16(b[32:]))
		b = b[34:]

		if len(b) < 4*n {
			return nil, formatErrorf(0, a.Tag, "placement with %d params but %d bytes left", n, len(b))
		}
		if n > 0 {
			p.Params = make([]float32, n)
			for i := range p.Params {
				p.Params[i] = gomath.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
			}
			b = b[4*n:]
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func decodePolygonPlacements(a *Atom) ([]PolygonPlacement, error) {
	var ps []PolygonPlacement
	b := a.Raw
	for len(b) > 0 {
		if len(b) < 8 {
			return nil, formatErrorf(0, a.Tag, "truncated polygon record: %d bytes left", len(b))
		}
		var p PolygonPlacement
		p.DefIndex = int(binary.LittleEndian.Uint32(b))
		p.Param = binary.LittleEndian.Uint16(b[4:])
		n := int(binary.LittleEndian.Uint16(b[6:]))
		b = b[8:]

		if len(b) < 16*n {
			return nil, formatErrorf(0, a.Tag, "polygon with %d points but %d bytes left", n, len(b))
		}
		p.Points = make([]math.Point2LL, n)
		for i := range p.Points {
			p.Points[i][0] = gomath.Float64frombits(binary.LittleEndian.Uint64(b[16*i:]))
			p.Points[i][1] = gomath.Float64frombits(binary.LittleEndian.Uint64(b[16*i+8:]))
		}
		b = b[16*n:]
		ps = append(ps, p)
	}
	return ps, nil
}
