// pkg/dsf/rebuild.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package dsf

import (
	"bytes"
	"encoding/binary"
	gomath "math"
)

// Rebuild re-serializes the table views into their owning atoms' payloads.
// Atom lengths are derived from the payloads at encode time, so the whole
// containment chain is consistent afterwards. Placement def indices are
// validated against the string tables; an out-of-range index cannot come
// from a decoded file and is reported as an internal error.
func (t *Tables) Rebuild() error {
	for i, p := range t.ObjectPlacements {
		if p.DefIndex < 0 || p.DefIndex >= len(t.Objects.Strings) {
			return encodingErrorf("object placement %d references def %d, table has %d entries",
				i, p.DefIndex, len(t.Objects.Strings))
		}
	}
	for i, p := range t.PolygonPlacements {
		if p.DefIndex < 0 || p.DefIndex >= len(t.Polygons.Strings) {
			return encodingErrorf("polygon placement %d references def %d, table has %d entries",
				i, p.DefIndex, len(t.Polygons.Strings))
		}
	}

	t.Objects.atom.Raw = encodeStringTable(t.Objects.Strings)
	t.objp.Raw = encodePlacements(t.ObjectPlacements)

	// The polygon atoms may not exist in the source file; they are only
	// materialized when there is something to put in them.
	if len(t.Polygons.Strings) > 0 {
		if t.Polygons.atom == nil {
			t.Polygons.atom = &Atom{Tag: TagPolygonDefs}
			t.defn.Children = append(t.defn.Children, t.Polygons.atom)
		}
		t.Polygons.atom.Raw = encodeStringTable(t.Polygons.Strings)
	}
	if len(t.PolygonPlacements) > 0 {
		if t.plyp == nil {
			t.plyp = &Atom{Tag: TagPolygons}
			t.geod.Children = append(t.geod.Children, t.plyp)
		}
		t.plyp.Raw = encodePolygonPlacements(t.PolygonPlacements)
	}

	return nil
}

func encodeStringTable(strs []string) []byte {
	var buf bytes.Buffer
	for _, s := range strs {
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func encodePlacements(ps []Placement) []byte {
	var buf bytes.Buffer
	var b8 [8]byte
	put32 := func(v uint32) {
		binary.LittleEndian.PutUint32(b8[:4], v)
		buf.Write(b8[:4])
	}
	put64 := func(v float64) {
		binary.LittleEndian.PutUint64(b8[:], gomath.Float64bits(v))
		buf.Write(b8[:])
	}

	for _, p := range ps {
		put32(uint32(p.DefIndex))
		put64(p.Pos[0])
		put64(p.Pos[1])
		put64(p.Elevation)
		put32(gomath.Float32bits(float32(p.Heading)))
		binary.LittleEndian.PutUint16(b8[:2], uint16(len(p.Params)))
		buf.Write(b8[:2])
		for _, v := range p.Params {
			put32(gomath.Float32bits(v))
		}
	}
	return buf.Bytes()
}

func encodePolygonPlacements(ps []PolygonPlacement) []byte {
	var buf bytes.Buffer
	var b8 [8]byte

	for _, p := range ps {
		binary.LittleEndian.PutUint32(b8[:4], uint32(p.DefIndex))
		buf.Write(b8[:4])
		binary.LittleEndian.PutUint16(b8[:2], p.Param)
		buf.Write(b8[:2])
		binary.LittleEndian.PutUint16(b8[:2], uint16(len(p.Points)))
		buf.Write(b8[:2])
		for _, pt := range p.Points {
			binary.LittleEndian.PutUint64(b8[:], gomath.Float64bits(pt[0]))
			buf.Write(b8[:])
			binary.LittleEndian.PutUint64(b8[:], gomath.Float64bits(pt[1]))
			buf.Write(b8[:])
		}
	}
	return buf.Bytes()
}
