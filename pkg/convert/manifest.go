// pkg/convert/manifest.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package convert

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// ManifestName is the conversion manifest written next to the scenery's
// "Earth nav data" folder.
const ManifestName = "sam_2_xp12-manifest.msgpack.zst"

const manifestVersion = 1

// FileRecords holds the conversion records of one DSF tile.
type FileRecords struct {
	Path    string
	Records []Record
}

// Manifest archives what a conversion run did: the configuration used and
// every record per touched DSF file. It is written msgpack-encoded and
// zstd-compressed.
type Manifest struct {
	Version       int
	Style         Style
	MatchRadius   float64
	RotundaLength float64
	Files         []FileRecords
}

func NewManifest(cfg Config) *Manifest {
	return &Manifest{
		Version:       manifestVersion,
		Style:         cfg.Style,
		MatchRadius:   cfg.MatchRadius,
		RotundaLength: cfg.RotundaLength,
	}
}

func (m *Manifest) Add(path string, records []Record) {
	if len(records) == 0 {
		return
	}
	m.Files = append(m.Files, FileRecords{Path: path, Records: records})
}

func (m *Manifest) Write(w io.Writer) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(m); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func ReadManifest(r io.Reader) (*Manifest, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var m Manifest
	if err := msgpack.NewDecoder(zr).Decode(&m); err != nil {
		return nil, err
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("manifest version %d, expected %d", m.Version, manifestVersion)
	}
	return &m, nil
}
