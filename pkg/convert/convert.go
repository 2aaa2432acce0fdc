// pkg/convert/convert.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package convert

import (
	"github.com/brunoga/deep"

	"github.com/hotbso/sam-2-xp12/pkg/aptdat"
	"github.com/hotbso/sam-2-xp12/pkg/dsf"
	"github.com/hotbso/sam-2-xp12/pkg/log"
	"github.com/hotbso/sam-2-xp12/pkg/math"
	"github.com/hotbso/sam-2-xp12/pkg/sam"
)

const (
	DefaultMatchRadius   = 0.5 // m
	DefaultRotundaLength = 1.0 // m

	// assumed cabin position when sam.xml has no entry for a jetway
	defaultCabinLength = 18.0

	// facade wall index of the native jetway rotunda segment
	facadeWallParam = 5
)

// Config carries the conversion options; zero values are not useful, use
// the Default* constants for the distances.
type Config struct {
	Style         Style
	MatchRadius   float64 // m, position association tolerance
	RotundaLength float64 // m, length of the rotunda segment
}

// Record describes one converted placement. It is pure output: the
// apt.dat bridge renders jetway rows from it and the manifest archives
// it.
type Record struct {
	Name        string // sam.xml jetway name, if known
	SamResource string
	Kind        Kind
	Style       Style

	Pos          math.Point2LL // docking position, anchor of the jetway
	RotundaBase  math.Point2LL // Pos pulled back one rotunda length
	Heading      float64       // tunnel heading, degrees
	CabinHeading float64       // cabin rotation relative to the tunnel
	TunnelCode   int
	CabinLength  float64

	RampName string // matched ramp start, if any
	Matched  bool   // a ramp start was within the match radius
	Removed  bool   // placement dropped instead of replaced (docks)
}

// AptRow renders the record as an apt.dat 1500 jetway row.
func (r *Record) AptRow() string {
	name := r.Name
	if name == "" {
		name = r.RampName
	}
	return aptdat.FormatJetwayRow(name, r.Pos, r.Heading, int(r.Style),
		r.TunnelCode, r.CabinLength, r.CabinHeading)
}

// Transform rewrites every SAM jetway placement in the tables as a native
// jetway of the configured style and returns one Record per touched
// placement. Untouched placements keep their slots and def indices; the
// native facade resource is appended to the tables at most once. Running
// Transform on its own output is a no-op since native resources don't
// classify as SAM.
//
// Door and cabin geometry comes from the sam.xml entry standing at the
// placement's position, docking alignment from the nearest ramp start
// within cfg.MatchRadius (inclusive; ties go to the earliest ramp in
// input order). Without a ramp match the placement is converted in place
// and flagged unmatched. SAM docking systems are dropped altogether, the
// native DGS service takes over at such stands.
func Transform(tables *dsf.Tables, samDB *sam.Database, ramps []aptdat.RampStart,
	cfg Config, cl *Classifier, lg *log.Logger) []Record {

	// work on a private copy so no caller slice is written through
	placements := deep.MustCopy(tables.ObjectPlacements)

	var out []dsf.Placement
	var records []Record

	for _, p := range placements {
		if p.DefIndex < 0 || p.DefIndex >= len(tables.Objects.Strings) {
			out = append(out, p)
			continue
		}
		resource := tables.Objects.Strings[p.DefIndex]
		kind := cl.Classify(resource)
		if kind == KindNone {
			out = append(out, p)
			continue
		}

		if kind == KindDock || samDB.MatchDock(p.Pos) {
			lg.Infof("dropping SAM dock %s at %s", resource, p.Pos.DDString())
			records = append(records, Record{
				SamResource: resource,
				Kind:        KindDock,
				Pos:         p.Pos,
				Heading:     p.Heading,
				TunnelCode:  -1,
				Removed:     true,
			})
			continue
		}

		rec := Record{
			SamResource: resource,
			Kind:        kind,
			Style:       cfg.Style,
			Pos:         p.Pos,
			Heading:     p.Heading,
		}

		// door/cabin geometry from the sam.xml jetway standing here
		if jw, dist := samDB.NearestJetway(p.Pos); jw != nil && dist <= cfg.MatchRadius {
			if !jw.Convertible() {
				lg.Warnf("no native jetway fits '%s' (height %.1fm, cabin %.1fm), keeping SAM object",
					jw.Name, jw.Height, jw.CabinLength)
				out = append(out, p)
				continue
			}
			rec.Name = jw.Name
			rec.CabinLength = jw.CabinLength
			rec.TunnelCode = jw.TunnelCode
			rec.Heading = jw.JetwayHeading
			rec.CabinHeading = jw.CabinHeading
		} else {
			rec.CabinLength = defaultCabinLength
			rec.TunnelCode = sam.TunnelCode(defaultCabinLength)
		}

		// docking alignment from the nearest ramp start
		if ramp, dist, ok := nearestRamp(ramps, p.Pos); ok && dist <= cfg.MatchRadius {
			rec.Matched = true
			rec.RampName = ramp.Name
			rec.Pos = ramp.Pos
			if rec.Name == "" {
				// no sam.xml geometry, take the tunnel direction
				// from the stand as well
				rec.Heading = ramp.Heading
			}
		} else {
			lg.Warnf("unmatched SAM jetway %s at %s", resource, p.Pos.DDString())
		}

		rec.RotundaBase = math.Offset2LL(rec.Pos, rec.Heading, -cfg.RotundaLength)

		out = append(out, dsf.Placement{
			DefIndex:  tables.Objects.Intern(cfg.Style.Resource()),
			Pos:       rec.RotundaBase,
			Elevation: p.Elevation,
			Heading:   rec.Heading,
			Params: []float32{
				float32(rec.TunnelCode),
				float32(rec.CabinLength),
				float32(math.NormalizeHeading(rec.CabinHeading)),
			},
		})

		tables.PolygonPlacements = append(tables.PolygonPlacements, dsf.PolygonPlacement{
			DefIndex: tables.Polygons.Intern(cfg.Style.Resource()),
			Param:    facadeWallParam,
			Points:   []math.Point2LL{rec.RotundaBase, rec.Pos},
		})

		lg.Infof("converted %s '%s' at %s to %s", kind, rec.Name, rec.Pos.DDString(), cfg.Style)
		records = append(records, rec)
	}

	tables.ObjectPlacements = out
	return records
}

// nearestRamp returns the closest ramp start; on exact distance ties the
// one earliest in the input wins.
func nearestRamp(ramps []aptdat.RampStart, pos math.Point2LL) (aptdat.RampStart, float64, bool) {
	best := -1
	bestDist := 0.0
	for i := range ramps {
		if d := math.MDistance2LL(ramps[i].Pos, pos); best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return aptdat.RampStart{}, 0, false
	}
	return ramps[best], bestDist, true
}
