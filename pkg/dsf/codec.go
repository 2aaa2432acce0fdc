// pkg/dsf/codec.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package dsf

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"slices"
)

const (
	dsfMagic      = "XPLNEDSF"
	dsfVersion    = 1
	atomHeaderLen = 8

	fileHeaderLen = len(dsfMagic) + 4 // magic + uint32 version
)

// Document owns the decoded atom tree of one DSF file. It is built once by
// Decode, possibly mutated through the table views, and finally serialized
// with Encode.
type Document struct {
	Atoms []*Atom
}

// Decode parses raw DSF bytes into a Document. The trailing MD5 digest is
// verified against the file contents; a mismatch means the file was
// corrupted or hand-edited and is rejected like any other malformed input.
func Decode(b []byte) (*Document, error) {
	if len(b) < fileHeaderLen+md5.Size {
		return nil, formatErrorf(0, "", "truncated file: %d bytes", len(b))
	}
	if string(b[:len(dsfMagic)]) != dsfMagic {
		return nil, formatErrorf(0, "", "bad magic %q", b[:len(dsfMagic)])
	}
	if v := binary.LittleEndian.Uint32(b[len(dsfMagic):fileHeaderLen]); v != dsfVersion {
		return nil, formatErrorf(len(dsfMagic), "", "unsupported version %d", v)
	}

	sum := md5.Sum(b[:len(b)-md5.Size])
	if !bytes.Equal(sum[:], b[len(b)-md5.Size:]) {
		return nil, formatErrorf(len(b)-md5.Size, "", "MD5 digest mismatch")
	}

	atoms, err := decodeAtoms(b[fileHeaderLen:len(b)-md5.Size], fileHeaderLen)
	if err != nil {
		return nil, err
	}
	return &Document{Atoms: atoms}, nil
}

func decodeAtoms(b []byte, offset int) ([]*Atom, error) {
	var atoms []*Atom
	for len(b) > 0 {
		if len(b) < atomHeaderLen {
			return nil, formatErrorf(offset, "", "truncated atom header: %d bytes left", len(b))
		}
		tag := string(b[:4])
		length := int(binary.LittleEndian.Uint32(b[4:8]))
		if length < atomHeaderLen {
			return nil, formatErrorf(offset, tag, "atom length %d below header size", length)
		}
		if length > len(b) {
			return nil, formatErrorf(offset, tag, "atom length %d exceeds %d remaining bytes", length, len(b))
		}

		payload := b[atomHeaderLen:length]
		a := &Atom{Tag: tag}
		if a.IsContainer() {
			children, err := decodeAtoms(payload, offset+atomHeaderLen)
			if err != nil {
				return nil, err
			}
			a.Children = children
		} else {
			a.Raw = slices.Clone(payload)
		}
		atoms = append(atoms, a)

		b = b[length:]
		offset += length
	}
	return atoms, nil
}

// Encode serializes the Document back to bytes and appends the recomputed
// MD5 digest. Atoms that were not mutated encode to exactly the bytes they
// were decoded from.
func (d *Document) Encode() []byte {
	n := fileHeaderLen
	for _, a := range d.Atoms {
		n += a.EncodedLen()
	}

	buf := bytes.NewBuffer(make([]byte, 0, n+md5.Size))
	buf.WriteString(dsfMagic)
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], dsfVersion)
	buf.Write(hdr[:])

	for _, a := range d.Atoms {
		a.encode(buf)
	}

	sum := md5.Sum(buf.Bytes())
	buf.Write(sum[:])
	return buf.Bytes()
}

func (a *Atom) encode(buf *bytes.Buffer) {
	buf.WriteString(a.Tag)
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(a.EncodedLen()))
	buf.Write(hdr[:])

	if a.IsContainer() {
		for _, c := range a.Children {
			c.encode(buf)
		}
	} else {
		buf.Write(a.Raw)
	}
}

// Find returns the first top-level atom with the given tag, or nil.
func (d *Document) Find(tag string) *Atom {
	for _, a := range d.Atoms {
		if a.Tag == tag {
			return a
		}
	}
	return nil
}
