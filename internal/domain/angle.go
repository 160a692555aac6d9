package domain

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// FixAngle normalizes an angle into the [0, 360) degree range.
func FixAngle(angle float64) float64 {
	return fix(angle, 360.0)
}

// FixHour normalizes an hour-of-day value into the [0, 24) range.
func FixHour(hour float64) float64 {
	return fix(hour, 24.0)
}

// fix reduces a modulo b into [0, b). NaN passes through unchanged so that
// undefined intermediate values stay visible to downstream checks.
func fix(a, b float64) float64 {
	a = a - b*math.Floor(a/b)
	if a < 0 {
		return a + b
	}
	return a
}
