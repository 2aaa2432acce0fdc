// pkg/aptdat/aptdat.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

// Package aptdat is the bridge between the DSF conversion core and the
// text airport file. It supplies parsed ramp-start rows for dock matching
// and splices generated native-jetway rows back into apt.dat. The package
// is strictly line oriented; rows it does not understand pass through
// untouched.
package aptdat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hotbso/sam-2-xp12/pkg/math"
	"github.com/hotbso/sam-2-xp12/pkg/util"
)

// apt.dat row codes
const (
	rowRampStart  = "1300"
	rowJetway     = "1500"
	rowTerminator = "99"
)

// RampStart is one parking/gate position from apt.dat: row code 1300 with
// latitude, longitude, heading and the free-form name at the end.
type RampStart struct {
	Name    string
	Pos     math.Point2LL
	Heading float64
}

// ParseRampStarts scans apt.dat for ramp-start rows. Malformed rows are
// reported through the ErrorLogger and skipped; everything else in the
// file is ignored.
func ParseRampStarts(r io.Reader, e *util.ErrorLogger) []RampStart {
	e.Push("apt.dat")
	defer e.Pop()

	var ramps []RampStart
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		f := strings.Fields(sc.Text())
		if len(f) == 0 || f[0] != rowRampStart {
			continue
		}
		if len(f) < 4 {
			e.ErrorString("line %d: short ramp start row", lineno)
			continue
		}

		lat, err1 := strconv.ParseFloat(f[1], 64)
		lon, err2 := strconv.ParseFloat(f[2], 64)
		hdg, err3 := strconv.ParseFloat(f[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			e.ErrorString("line %d: unparseable ramp start row", lineno)
			continue
		}

		name := ""
		if len(f) >= 7 {
			// 1300 lat lon heading location-type aircraft-types name...
			name = strings.Join(f[6:], " ")
		}
		ramps = append(ramps, RampStart{
			Name:    name,
			Pos:     math.Point2LL{lon, lat},
			Heading: math.NormalizeHeading(hdg),
		})
	}
	if err := sc.Err(); err != nil {
		e.Error(err)
	}
	return ramps
}

// FormatJetwayRow renders one native jetway as an apt.dat 1500 row,
// preceded by a comment carrying the jetway's name.
func FormatJetwayRow(name string, pos math.Point2LL, jwHeading float64, style int,
	tunnelCode int, length float64, cabHeading float64) string {
	jwHdg := math.NormalizeHeading(jwHeading)
	cabHdg := math.NormalizeHeading(jwHeading + cabHeading)

	return fmt.Sprintf("# '%s'\n%s %0.8f %0.8f %0.1f %d %d %0.1f %0.1f %0.1f",
		name, rowJetway, pos.Latitude(), pos.Longitude(), jwHdg,
		style, tunnelCode, jwHdg, length, cabHdg)
}

// RewriteJetways copies apt.dat from src to dst, inserting the given rows
// immediately ahead of the 99 terminator row. All other lines, including
// their line endings, are passed through verbatim.
func RewriteJetways(src io.Reader, dst io.Writer, rows []string) error {
	br := bufio.NewReader(src)
	w := bufio.NewWriter(dst)
	inserted := false

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if !inserted && strings.HasPrefix(line, rowTerminator) {
				for _, row := range rows {
					if _, werr := w.WriteString(row + "\n"); werr != nil {
						return werr
					}
				}
				inserted = true
			}
			if _, werr := w.WriteString(line); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	return w.Flush()
}
