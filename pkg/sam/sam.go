// pkg/sam/sam.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

// Package sam reads the sam.xml file that the SAM plugin ships with a
// scenery package. It describes the plugin's animated jetways and docking
// systems; the converter uses it as the source of door and cabin geometry
// for the replacement native jetways.
package sam

import (
	"encoding/xml"
	"io"

	"github.com/hotbso/sam-2-xp12/pkg/math"
	"github.com/hotbso/sam-2-xp12/pkg/util"
)

// Tunnel length limits of the native XP12 jetway models, by tunnel code.
// A SAM jetway whose cabin position fits none of them has no native
// replacement.
var tunnelRanges = [4][2]float64{
	{11, 23},
	{14, 29},
	{17, 38},
	{20, 47},
}

// Native jetways only exist for rotunda heights in this range.
const (
	minHeight = 3.5
	maxHeight = 6.0
)

// Jetway is one <jetway> entry of sam.xml.
type Jetway struct {
	Name        string
	Pos         math.Point2LL
	Heading     float64 // rotunda heading, degrees
	Height      float64 // cabin height above ground, m
	CabinLength float64 // rotunda to cabin center, m
	MaxExtent   float64 // maximum tunnel extension, m

	JetwayHeading float64 // Heading + initial tunnel rotation
	CabinHeading  float64 // cabin rotation relative to the tunnel

	TunnelCode int // native tunnel code 0..3, -1 if nothing fits
}

// Convertible reports whether a native XP12 jetway can stand in for this
// one.
func (j *Jetway) Convertible() bool {
	return j.TunnelCode >= 0 && j.Height >= minHeight && j.Height <= maxHeight
}

// Dock is one <dock> entry of sam.xml. SAM dock headings are given
// relative to east, so 90 degrees is added to get a compass heading.
type Dock struct {
	Pos     math.Point2LL
	Heading float64
}

// Database holds the parsed sam.xml contents.
type Database struct {
	Jetways []Jetway
	Docks   []Dock
}

type jetwayXML struct {
	Name        string  `xml:"name,attr"`
	Latitude    float64 `xml:"latitude,attr"`
	Longitude   float64 `xml:"longitude,attr"`
	Heading     float64 `xml:"heading,attr"`
	Height      float64 `xml:"height,attr"`
	CabinPos    float64 `xml:"cabinPos,attr"`
	MaxExtent   float64 `xml:"maxExtent,attr"`
	InitialRot1 float64 `xml:"initialRot1,attr"`
	InitialRot2 float64 `xml:"initialRot2,attr"`
}

type dockXML struct {
	Latitude  float64 `xml:"latitude,attr"`
	Longitude float64 `xml:"longitude,attr"`
	Heading   float64 `xml:"heading,attr"`
}

type samXML struct {
	Jetways struct {
		Jetways []jetwayXML `xml:"jetway"`
	} `xml:"jetways"`
	Docks struct {
		Docks []dockXML `xml:"dock"`
	} `xml:"docks"`
}

// ParseDatabase reads sam.xml. Entries that can't be represented by a
// native jetway are kept with TunnelCode -1 so that callers can report
// them; XML-level problems go to the ErrorLogger.
func ParseDatabase(r io.Reader, e *util.ErrorLogger) *Database {
	e.Push("sam.xml")
	defer e.Pop()

	var raw samXML
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		e.Error(err)
		return nil
	}

	db := &Database{}
	for _, j := range raw.Jetways.Jetways {
		jw := Jetway{
			Name:        j.Name,
			Pos:         math.Point2LL{j.Longitude, j.Latitude},
			Heading:     j.Heading,
			Height:      j.Height,
			CabinLength: j.CabinPos,
			MaxExtent:   j.MaxExtent,

			JetwayHeading: j.Heading + j.InitialRot1,
			CabinHeading:  j.InitialRot2,
			TunnelCode:    TunnelCode(j.CabinPos),
		}
		if jw.Pos.IsZero() {
			e.ErrorString("jetway '%s': missing position", j.Name)
			continue
		}
		db.Jetways = append(db.Jetways, jw)
	}

	for _, d := range raw.Docks.Docks {
		db.Docks = append(db.Docks, Dock{
			Pos:     math.Point2LL{d.Longitude, d.Latitude},
			Heading: math.NormalizeHeading(90 + d.Heading),
		})
	}

	return db
}

// TunnelCode returns the largest native tunnel code whose length range
// covers the given cabin position, or -1.
func TunnelCode(length float64) int {
	code := -1
	for i, r := range tunnelRanges {
		if length >= r[0] && length <= r[1] {
			code = i
		}
	}
	return code
}

// NearestJetway returns the sam.xml jetway closest to pos and its distance
// in meters, or nil for an empty database.
func (db *Database) NearestJetway(pos math.Point2LL) (*Jetway, float64) {
	var best *Jetway
	bestDist := 0.0
	for i := range db.Jetways {
		if d := math.MDistance2LL(db.Jetways[i].Pos, pos); best == nil || d < bestDist {
			best = &db.Jetways[i]
			bestDist = d
		}
	}
	return best, bestDist
}

// MatchDock reports whether pos coincides with one of the SAM docking
// systems. Docks are matched within a fixed 1m tolerance.
func (db *Database) MatchDock(pos math.Point2LL) bool {
	for i := range db.Docks {
		if math.MDistance2LL(db.Docks[i].Pos, pos) < 1 {
			return true
		}
	}
	return false
}
