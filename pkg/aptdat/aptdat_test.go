// pkg/aptdat/aptdat_test.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package aptdat

import (
	"strings"
	"testing"

	"github.com/hotbso/sam-2-xp12/pkg/math"
	"github.com/hotbso/sam-2-xp12/pkg/util"
)

const aptFixture = `I
1200 Generated by WorldEditor

1 365 1 0 EDDN Nuernberg
100 45.11 3 0 0.25 0 2 1 10R 49.49 11.06 0 0 3 0 0 0 28L 49.50 11.09 0 0 3 0 0
1300 49.49506084 11.07762691 8.27 gate jets|heavy Gate 11
1300 49.49601000 11.07900000 190.00 tie_down props Ramp 3
1302 city Nuernberg
99
`

func TestParseRampStarts(t *testing.T) {
	var e util.ErrorLogger
	ramps := ParseRampStarts(strings.NewReader(aptFixture), &e)
	if e.HaveErrors() {
		t.Fatalf("unexpected errors: %s", e.String())
	}

	if len(ramps) != 2 {
		t.Fatalf("got %d ramp starts, expected 2", len(ramps))
	}
	r := ramps[0]
	if r.Name != "Gate 11" {
		t.Errorf("name: %q", r.Name)
	}
	if math.Abs(r.Pos.Latitude()-49.49506084) > 1e-9 || math.Abs(r.Pos.Longitude()-11.07762691) > 1e-9 {
		t.Errorf("position: %v", r.Pos)
	}
	if r.Heading != 8.27 {
		t.Errorf("heading: %g", r.Heading)
	}
	if ramps[1].Name != "Ramp 3" {
		t.Errorf("name: %q", ramps[1].Name)
	}
}

func TestParseRampStartsBadRows(t *testing.T) {
	var e util.ErrorLogger
	ramps := ParseRampStarts(strings.NewReader("1300 only\n1300 x y z\n"), &e)
	if len(ramps) != 0 {
		t.Errorf("got %d ramp starts from garbage", len(ramps))
	}
	if !e.HaveErrors() {
		t.Errorf("malformed rows were not reported")
	}
}

func TestFormatJetwayRow(t *testing.T) {
	row := FormatJetwayRow("Gate 11", math.Point2LL{11.07762691, 49.49506084},
		-51.8, 2, 2, 17.6, -37.8)
	want := "# 'Gate 11'\n1500 49.49506084 11.07762691 308.2 2 2 308.2 17.6 270.4"
	if row != want {
		t.Errorf("got %q\nexpected %q", row, want)
	}
}

func TestRewriteJetways(t *testing.T) {
	var out strings.Builder
	rows := []string{"# 'Gate 11'\n1500 49.49506084 11.07762691 308.2 2 2 308.2 17.6 270.4"}
	if err := RewriteJetways(strings.NewReader(aptFixture), &out, rows); err != nil {
		t.Fatalf("RewriteJetways: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, rows[0]+"\n99\n") {
		t.Errorf("jetway row not inserted ahead of terminator:\n%s", got)
	}
	// everything else passes through verbatim
	for _, line := range strings.Split(aptFixture, "\n") {
		if !strings.Contains(got, line) {
			t.Errorf("line %q lost in rewrite", line)
		}
	}
	if strings.Count(got, "1500 ") != 1 {
		t.Errorf("expected exactly one inserted 1500 row:\n%s", got)
	}
}

func TestRewriteJetwaysNoTerminator(t *testing.T) {
	var out strings.Builder
	err := RewriteJetways(strings.NewReader("I\n1 365 1 0 XXXX Test"), &out, []string{"1500 x"})
	if err != nil {
		t.Fatalf("RewriteJetways: %v", err)
	}
	// no terminator: file is copied unchanged, nothing inserted
	if strings.Contains(out.String(), "1500 x") {
		t.Errorf("row inserted without terminator:\n%s", out.String())
	}
}
