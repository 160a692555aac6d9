package domain

import "math"

// JulianDay converts a proleptic-Gregorian calendar date to the Julian Day
// at 0h UT using the standard Meeus algorithm: January and February are
// shifted into the preceding year and the 100/400-year Gregorian correction
// is applied.
func JulianDay(year, month, day int) float64 {
	if month <= 2 {
		year--
		month += 12
	}

	a := math.Floor(float64(year) / 100.0)
	b := 2.0 - a + math.Floor(a/4.0)

	return math.Floor(365.25*(float64(year)+4716.0)) +
		math.Floor(30.6001*(float64(month)+1.0)) +
		float64(day) + b - 1524.5
}

// SunPosition returns the equation of time in hours and the solar declination
// in degrees for a given Julian Day, from a low-order analytic solar model.
//
// Mean anomaly and mean longitude are linear in days since J2000; the
// ecliptic longitude adds two periodic correction terms; obliquity is linear
// in days since J2000. There is no error path: every Julian Day yields a
// value. The equation of time may land near ±24 when the mean longitude and
// the right ascension wrap on different sides of 0h; every consumer passes
// the result through FixHour, so the discontinuity never escapes.
func SunPosition(jd float64) (eqt, decl float64) {
	d := jd - 2451545.0

	g := FixAngle(357.529 + 0.98560028*d)
	q := FixAngle(280.459 + 0.98564736*d)
	l := FixAngle(q + 1.915*math.Sin(Deg2Rad(g)) + 0.020*math.Sin(Deg2Rad(2.0*g)))

	e := 23.439 - 0.00000036*d
	ra := Rad2Deg(math.Atan2(math.Cos(Deg2Rad(e))*math.Sin(Deg2Rad(l)), math.Cos(Deg2Rad(l)))) / 15.0

	eqt = q/15.0 - FixHour(ra)
	decl = Rad2Deg(math.Asin(math.Sin(Deg2Rad(e)) * math.Sin(Deg2Rad(l))))

	return eqt, decl
}
