// pkg/convert/jetway.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

// Package convert identifies SAM jetway placements in a DSF's object
// tables and rewrites them as the simulator's native jetways.
package convert

import (
	"strings"
)

// Style selects which native jetway facade is substituted for the SAM
// objects; the value matches the -jw_type command line flag.
type Style int

const (
	Jetway1Solid Style = iota // light-solid
	Jetway1Glass              // light-glass
	Jetway2Solid              // dark-solid
	Jetway2Glass              // dark-glass
	NumStyles
)

var styleFacades = [NumStyles]string{
	"Jetway_1_solid.fac",
	"Jetway_1_glass.fac",
	"Jetway_2_solid.fac",
	"Jetway_2_glass.fac",
}

const nativeJetwayLib = "lib/airport/Ramp_Equipment/Jetways/"

// Resource returns the library path of the native facade for this style.
func (s Style) Resource() string {
	return nativeJetwayLib + styleFacades[s]
}

func (s Style) Valid() bool {
	return s >= 0 && s < NumStyles
}

func (s Style) String() string {
	if !s.Valid() {
		return "invalid"
	}
	return strings.TrimSuffix(styleFacades[s], ".fac")
}

// Kind classifies what role a SAM resource plays.
type Kind int

const (
	KindNone     Kind = iota // not a SAM resource
	KindFixed                // fixed jetway
	KindRotating             // rotating jetway variant
	KindWalkway              // elevated walkway
	KindStairs               // passenger stairs
	KindDock                 // docking guidance system
)

func (k Kind) String() string {
	return [...]string{"none", "fixed", "rotating", "walkway", "stairs", "dock"}[k]
}

// IsJetway reports whether placements of this kind are replaced by a
// native jetway.
func (k Kind) IsJetway() bool {
	return k == KindFixed || k == KindRotating || k == KindWalkway || k == KindStairs
}

// IsSamLibraryResource reports whether a resource path references the SAM
// object libraries.
func IsSamLibraryResource(resource string) bool {
	r := strings.ToLower(resource)
	return strings.Contains(r, "sam_library") || strings.Contains(r, "sam3_library")
}

// Classifier maps object resource paths to SAM roles. Library resources
// are recognized by a fixed pattern table; for scenery-local objects an
// optional ObjScanner peeks into the .obj file for SAM datarefs.
type Classifier struct {
	scanner *ObjScanner
}

func NewClassifier(scanner *ObjScanner) *Classifier {
	return &Classifier{scanner: scanner}
}

// patterns within a SAM library path, most specific first
var samResourcePatterns = []struct {
	substr string
	kind   Kind
}{
	{"dock", KindDock},
	{"dgs", KindDock},
	{"stair", KindStairs},
	{"walkway", KindWalkway},
	{"rotat", KindRotating},
	{"jetway", KindFixed},
	{"jetbridge", KindFixed},
}

func (c *Classifier) Classify(resource string) Kind {
	if IsSamLibraryResource(resource) {
		r := strings.ToLower(resource)
		for _, p := range samResourcePatterns {
			if strings.Contains(r, p.substr) {
				return p.kind
			}
		}
		return KindNone
	}

	// scenery-local object driven by the SAM plugin
	if c.scanner != nil && strings.HasSuffix(strings.ToLower(resource), ".obj") &&
		c.scanner.IsSamJetway(resource) {
		return KindFixed
	}

	return KindNone
}
