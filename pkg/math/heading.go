// pkg/math/heading.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package math

///////////////////////////////////////////////////////////////////////////
// headings and directions

// Heading2LL returns the heading from the point |from| to the point |to| in
// degrees. The provided points should be in latitude-longitude coordinates.
func Heading2LL(from Point2LL, to Point2LL) float64 {
	v := Point2LL{to[0] - from[0], to[1] - from[1]}

	// Note that atan2() normally measures w.r.t. the +x axis and angles
	// are positive for counter-clockwise. We want to measure w.r.t. +y and
	// to have positive angles be clockwise. Happily, swapping the order of
	// values passed to atan2()--passing (x,y), gives what we want.
	mPerLongitude := MPerLongitude(from.Latitude())
	angle := Degrees(Atan2(v[0]*mPerLongitude, v[1]*MPerLatitude))
	return NormalizeHeading(angle)
}

// HeadingDifference returns the minimum difference between two
// headings. (i.e., the result is always in the range [0,180].)
func HeadingDifference(a float64, b float64) float64 {
	var d float64
	if a > b {
		d = a - b
	} else {
		d = b - a
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// NormalizeHeading reduces a heading to [0,360).
func NormalizeHeading(h float64) float64 {
	if h < 0 {
		return 360 - NormalizeHeading(-h)
	}
	return Mod(h, 360)
}

// OppositeHeading returns the reciprocal of the given heading.
func OppositeHeading(h float64) float64 {
	return NormalizeHeading(h + 180)
}
