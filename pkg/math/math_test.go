// pkg/math/math_test.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package math

import (
	"testing"
)

func TestNormalizeHeading(t *testing.T) {
	type hdg struct {
		in, out float64
	}
	cases := []hdg{
		{in: 0, out: 0},
		{in: 360, out: 0},
		{in: 365, out: 5},
		{in: -5, out: 355},
		{in: -365, out: 355},
		{in: 725, out: 5},
		{in: 180, out: 180},
	}
	for _, c := range cases {
		if got := NormalizeHeading(c.in); Abs(got-c.out) > 1e-9 {
			t.Errorf("NormalizeHeading(%g) = %g, expected %g", c.in, got, c.out)
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	type hdg struct {
		a, b, diff float64
	}
	cases := []hdg{
		{a: 10, b: 350, diff: 20},
		{a: 350, b: 10, diff: 20},
		{a: 90, b: 270, diff: 180},
		{a: 5, b: 5, diff: 0},
		{a: 0, b: 179, diff: 179},
	}
	for _, c := range cases {
		if got := HeadingDifference(c.a, c.b); Abs(got-c.diff) > 1e-9 {
			t.Errorf("HeadingDifference(%g, %g) = %g, expected %g", c.a, c.b, got, c.diff)
		}
	}
}

func TestMDistance2LL(t *testing.T) {
	// one milli-degree of latitude is about 111.19m
	a := Point2LL{11.0776, 49.4950}
	b := Point2LL{11.0776, 49.4960}
	if d := MDistance2LL(a, b); Abs(d-111.19) > 0.1 {
		t.Errorf("MDistance2LL along meridian: got %g, expected ~111.19", d)
	}

	if d := MDistance2LL(a, a); d != 0 {
		t.Errorf("MDistance2LL of identical points: got %g, expected 0", d)
	}
}

func TestOffset2LL(t *testing.T) {
	p := Point2LL{11.0776, 49.4950}
	for _, hdg := range []float64{0, 45, 90, 135, 222.5, 315} {
		q := Offset2LL(p, hdg, 25)
		if d := MDistance2LL(p, q); Abs(d-25) > 0.5 {
			t.Errorf("Offset2LL 25m at %g deg: distance back is %g", hdg, d)
		}
		if h := Heading2LL(p, q); HeadingDifference(h, hdg) > 0.5 {
			t.Errorf("Offset2LL at %g deg: heading back is %g", hdg, h)
		}
	}

	// negative distance walks backwards
	q := Offset2LL(p, 90, -10)
	if h := Heading2LL(p, q); HeadingDifference(h, 270) > 0.5 {
		t.Errorf("Offset2LL -10m at 90 deg: heading is %g, expected 270", h)
	}
}
