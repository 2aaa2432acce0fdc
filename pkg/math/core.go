// pkg/math/core.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

func Sin(a float64) float64 {
	return gomath.Sin(a)
}

func Cos(a float64) float64 {
	return gomath.Cos(a)
}

func Atan2(y, x float64) float64 {
	return gomath.Atan2(y, x)
}

func Sqrt(a float64) float64 {
	return gomath.Sqrt(a)
}

func Mod(a, b float64) float64 {
	return gomath.Mod(a, b)
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}
