// pkg/dsf/atom.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package dsf

// A DSF file is a flat sequence of atoms, each a 4-character tag plus a
// 32-bit total length (header included). A fixed set of tags holds nested
// atoms; everything else is an opaque leaf that is carried through
// unchanged, so files with atom types we know nothing about still survive a
// decode/encode cycle bit for bit.

const (
	TagHead = "HEAD" // file header properties
	TagDefn = "DEFN" // definition tables
	TagGeod = "GEOD" // geodata: placements, pools
	TagDems = "DEMS" // raster data

	TagObjectDefs  = "OBJT" // object resource string table, inside DEFN
	TagPolygonDefs = "POLY" // polygon resource string table, inside DEFN
	TagObjects     = "OBJP" // object placements, inside GEOD
	TagPolygons    = "PLYP" // polygon placements, inside GEOD
)

// containerTags drives traversal: children are decoded for these, any
// other tag is a leaf.
var containerTags = map[string]bool{
	TagHead: true,
	TagDefn: true,
	TagGeod: true,
	TagDems: true,
}

// Atom is one node of the decoded tree. Exactly one of Raw or Children is
// meaningful, depending on IsContainer.
type Atom struct {
	Tag      string
	Raw      []byte
	Children []*Atom
}

func (a *Atom) IsContainer() bool {
	return containerTags[a.Tag]
}

// EncodedLen returns the total encoded size of the atom including its
// 8-byte header.
func (a *Atom) EncodedLen() int {
	n := atomHeaderLen
	if a.IsContainer() {
		for _, c := range a.Children {
			n += c.EncodedLen()
		}
	} else {
		n += len(a.Raw)
	}
	return n
}

// Find returns the first direct child with the given tag, or nil.
func (a *Atom) Find(tag string) *Atom {
	for _, c := range a.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}
