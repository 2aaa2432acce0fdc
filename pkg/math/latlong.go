// pkg/math/latlong.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package math

import (
	"fmt"
)

// MPerLatitude is the length of one degree of latitude in meters.
const MPerLatitude = 60 * 1852.0

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float64

func (p Point2LL) Longitude() float64 {
	return p[0]
}

func (p Point2LL) Latitude() float64 {
	return p[1]
}

// DDString returns the position in decimal degrees, e.g.:
// (49.495061, 11.077627)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

// MPerLongitude returns the length of one degree of longitude in meters at
// the given latitude.
func MPerLongitude(lat float64) float64 {
	return MPerLatitude * Cos(Radians(lat))
}

// MDistance2LL returns the distance in meters between two provided lat-long
// coordinates.
func MDistance2LL(a Point2LL, b Point2LL) float64 {
	// https://www.movable-type.co.uk/scripts/latlong.html
	const R = 6371000 // metres
	lat1, lon1 := Radians(a[1]), Radians(a[0])
	lat2, lon2 := Radians(b[1]), Radians(b[0])
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(Sin(dlat/2)) + Cos(lat1)*Cos(lat2)*Sqr(Sin(dlon/2))
	c := 2 * Atan2(Sqrt(x), Sqrt(1-x))
	return R * c
}

// LL2M converts a point expressed in latitude-longitude coordinates to meter
// coordinates; this is useful for example for reasoning about distances,
// since both axes then have the same measure.
func LL2M(p Point2LL, mPerLongitude float64) [2]float64 {
	return [2]float64{p[0] * mPerLongitude, p[1] * MPerLatitude}
}

// M2LL converts a point expressed in meter coordinates to lat-long.
func M2LL(p [2]float64, mPerLongitude float64) Point2LL {
	return Point2LL{p[0] / mPerLongitude, p[1] / MPerLatitude}
}

// Offset2LL returns the point at distance dist meters along the vector with
// heading hdg from the given point. It assumes a (locally) flat earth.
func Offset2LL(pll Point2LL, hdg float64, dist float64) Point2LL {
	mPerLongitude := MPerLongitude(pll.Latitude())
	p := LL2M(pll, mPerLongitude)
	h := Radians(hdg)
	p[0] += dist * Sin(h)
	p[1] += dist * Cos(h)
	return M2LL(p, mPerLongitude)
}
