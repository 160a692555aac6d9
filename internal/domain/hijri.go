package domain

import "fmt"

// HijriDate is a date in the tabular (civil) Islamic calendar.
type HijriDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Format renders the date as DD/MM/YYYY.
func (h HijriDate) Format() string {
	return fmt.Sprintf("%02d/%02d/%04d", h.Day, h.Month, h.Year)
}

// GregorianToHijri converts a Gregorian calendar date to the tabular civil
// Hijri calendar via the Julian Day Number. Pure integer arithmetic; the
// result can drift a day or two from locally moon-sighted calendars, which is
// inherent to any arithmetic Hijri scheme.
func GregorianToHijri(year, month, day int) HijriDate {
	jdn := gregorianToJDN(year, month, day)

	l := jdn - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29

	hm := (24 * l) / 709
	hd := l - (709*hm)/24
	hy := 30*n + j - 30

	return HijriDate{Year: hy, Month: hm, Day: hd}
}

// HijriToGregorian converts a tabular civil Hijri date to Gregorian. The day
// may be 1..30 regardless of month; out-of-range components are rejected.
func HijriToGregorian(year, month, day int) (gy, gm, gd int, err error) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 30 {
		return 0, 0, 0, fmt.Errorf("%w: invalid hijri date %04d-%02d-%02d", ErrDateParsing, year, month, day)
	}

	jdn := (11*year+3)/30 + 354*year + 30*month - (month-1)/2 + day + 1948440 - 385
	gy, gm, gd = jdnToGregorian(jdn)
	return gy, gm, gd, nil
}

// gregorianToJDN is the Fliegel-Van Flandern Gregorian date to Julian Day
// Number conversion. Integer division truncates toward zero, matching the
// original FORTRAN formulation.
func gregorianToJDN(y, m, d int) int {
	return (1461*(y+4800+(m-14)/12))/4 +
		(367*(m-2-12*((m-14)/12)))/12 -
		(3*((y+4900+(m-14)/12)/100))/4 +
		d - 32075
}

// jdnToGregorian is the inverse Fliegel-Van Flandern conversion.
func jdnToGregorian(jdn int) (y, m, d int) {
	l := jdn + 68569
	n := (4 * l) / 146097
	l = l - (146097*n+3)/4
	i := (4000 * (l + 1)) / 1461001
	l = l - (1461*i)/4 + 31
	j := (80 * l) / 2447
	d = l - (2447*j)/80
	l = j / 11
	m = j + 2 - 12*l
	y = 100*(n-49) + i + l
	return y, m, d
}
