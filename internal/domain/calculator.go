package domain

import (
	"fmt"
	"math"
	"time"
)

// InvalidTime is rendered in place of a timestamp whose hour-angle inversion
// was undefined for the requested date and latitude.
const InvalidTime = "invalid"

// timeLayout renders zoned prayer timestamps as DD/MM/YYYY HH:MM.
const timeLayout = "02/01/2006 15:04"

// dateLayout renders calendar dates as DD/MM/YYYY.
const dateLayout = "02/01/2006"

// Coordinates is an observer position. Elevation feeds the sunrise/sunset
// dip-angle correction.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// Adjustments are per-field integer minute offsets applied at formatting time.
type Adjustments struct {
	Imsak      int `json:"imsak"`
	Fajr       int `json:"fajr"`
	Sunrise    int `json:"sunrise"`
	Dhuhr      int `json:"dhuhr"`
	Asr        int `json:"asr"`
	Sunset     int `json:"sunset"`
	Maghrib    int `json:"maghrib"`
	Isha       int `json:"isha"`
	Midnight   int `json:"midnight"`
	FirstThird int `json:"first_third"`
	LastThird  int `json:"last_third"`
}

// RawTimes holds the eleven unitless hour-of-day values for one date, before
// timezone correction and formatting. A field is NaN when its hour-angle
// inversion is undefined for the date and latitude.
type RawTimes struct {
	Imsak      float64
	Fajr       float64
	Sunrise    float64
	Dhuhr      float64
	Asr        float64
	Sunset     float64
	Maghrib    float64
	Isha       float64
	Midnight   float64
	FirstThird float64
	LastThird  float64
}

// PrayerTimes is one day of zoned, formatted prayer timestamps plus the
// Gregorian and Hijri date strings. Immutable once produced.
type PrayerTimes struct {
	Imsak      string `json:"imsak"`
	Fajr       string `json:"fajr"`
	Sunrise    string `json:"sunrise"`
	Dhuhr      string `json:"dhuhr"`
	Asr        string `json:"asr"`
	Sunset     string `json:"sunset"`
	Maghrib    string `json:"maghrib"`
	Isha       string `json:"isha"`
	Midnight   string `json:"midnight"`
	FirstThird string `json:"first_third"`
	LastThird  string `json:"last_third"`
	Date       string `json:"date"`
	Hijri      string `json:"hijri"`
}

// PrayerCalculator runs the daily calculation pipeline for a fixed observer,
// method and adjustment set. It is stateless beyond its configuration and
// safe for concurrent use.
type PrayerCalculator struct {
	coords      Coordinates
	settings    MethodSettings
	adjustments Adjustments
}

// NewPrayerCalculator creates a calculator for one resolved request.
func NewPrayerCalculator(coords Coordinates, settings MethodSettings, adjustments Adjustments) *PrayerCalculator {
	return &PrayerCalculator{
		coords:      coords,
		settings:    settings,
		adjustments: adjustments,
	}
}

// Calculate produces the formatted prayer times for one calendar date. The
// date's location must already be the fixed offset the caller wants the
// timestamps rendered in.
func (c *PrayerCalculator) Calculate(date time.Time) (PrayerTimes, error) {
	times, err := c.ComputeRaw(date)
	if err != nil {
		return PrayerTimes{}, err
	}

	hijri := GregorianToHijri(date.Year(), int(date.Month()), date.Day())

	return PrayerTimes{
		Imsak:      formatTime(times.Imsak, date, c.adjustments.Imsak),
		Fajr:       formatTime(times.Fajr, date, c.adjustments.Fajr),
		Sunrise:    formatTime(times.Sunrise, date, c.adjustments.Sunrise),
		Dhuhr:      formatTime(times.Dhuhr, date, c.adjustments.Dhuhr),
		Asr:        formatTime(times.Asr, date, c.adjustments.Asr),
		Sunset:     formatTime(times.Sunset, date, c.adjustments.Sunset),
		Maghrib:    formatTime(times.Maghrib, date, c.adjustments.Maghrib),
		Isha:       formatTime(times.Isha, date, c.adjustments.Isha),
		Midnight:   formatTime(times.Midnight, date, c.adjustments.Midnight),
		FirstThird: formatTime(times.FirstThird, date, c.adjustments.FirstThird),
		LastThird:  formatTime(times.LastThird, date, c.adjustments.LastThird),
		Date:       date.Format(dateLayout),
		Hijri:      hijri.Format(),
	}, nil
}

// ComputeRaw runs the full pipeline for one date and returns the eleven
// hour-of-day values after high-latitude correction, night phases and
// longitude adjustment, but before per-field minute adjustments and
// formatting.
func (c *PrayerCalculator) ComputeRaw(date time.Time) (RawTimes, error) {
	jd := JulianDay(date.Year(), int(date.Month()), date.Day())
	eqt, decl := SunPosition(jd)

	var times RawTimes
	var err error

	times.Dhuhr = midDay(eqt)
	if times.Sunrise, err = c.sunAngleTime(c.riseSetAngle(), eqt, decl, -1); err != nil {
		return RawTimes{}, err
	}
	if times.Sunset, err = c.sunAngleTime(c.riseSetAngle(), eqt, decl, +1); err != nil {
		return RawTimes{}, err
	}
	if times.Fajr, err = c.sunAngleTime(c.settings.Fajr, eqt, decl, -1); err != nil {
		return RawTimes{}, err
	}
	if times.Asr, err = c.asrTime(c.settings.School.ShadowFactor(), eqt, decl); err != nil {
		return RawTimes{}, err
	}

	if c.settings.Maghrib.IsMinutes() {
		times.Maghrib = times.Sunset + c.settings.Maghrib.Value()/60.0
	} else {
		if times.Maghrib, err = c.sunAngleTime(c.settings.Maghrib.Value(), eqt, decl, +1); err != nil {
			return RawTimes{}, err
		}
	}

	if c.settings.Isha.IsMinutes() {
		times.Isha = times.Maghrib + c.settings.Isha.Value()/60.0
	} else {
		if times.Isha, err = c.sunAngleTime(c.settings.Isha.Value(), eqt, decl, +1); err != nil {
			return RawTimes{}, err
		}
	}

	if c.settings.Imsak.IsMinutes() {
		times.Imsak = times.Fajr - c.settings.Imsak.Value()/60.0
	} else {
		if times.Imsak, err = c.sunAngleTime(c.settings.Imsak.Value(), eqt, decl, -1); err != nil {
			return RawTimes{}, err
		}
	}

	if c.settings.HighLat != nil {
		times = c.adjustHighLatitudes(times, *c.settings.HighLat)
	}

	nightLength := FixHour(times.Sunrise - times.Sunset)
	switch c.settings.Midnight {
	case MidnightJafari:
		times.Midnight = times.Sunset + FixHour(times.Fajr-times.Sunset)/2.0
	default:
		times.Midnight = times.Sunset + nightLength/2.0
	}

	times.FirstThird = times.Sunset + nightLength/3.0
	times.LastThird = times.Sunset + nightLength*2.0/3.0

	// Shift from local solar time to the reference meridian of the zone.
	lngDiff := c.coords.Longitude / 15.0
	times.Imsak = FixHour(times.Imsak - lngDiff)
	times.Fajr = FixHour(times.Fajr - lngDiff)
	times.Sunrise = FixHour(times.Sunrise - lngDiff)
	times.Dhuhr = FixHour(times.Dhuhr - lngDiff + c.settings.Dhuhr/60.0)
	times.Asr = FixHour(times.Asr - lngDiff)
	times.Sunset = FixHour(times.Sunset - lngDiff)
	times.Maghrib = FixHour(times.Maghrib - lngDiff)
	times.Isha = FixHour(times.Isha - lngDiff)
	times.Midnight = FixHour(times.Midnight - lngDiff)
	times.FirstThird = FixHour(times.FirstThird - lngDiff)
	times.LastThird = FixHour(times.LastThird - lngDiff)

	return times, nil
}

// midDay is the local solar noon for the day, in hours.
func midDay(eqt float64) float64 {
	return FixHour(12.0 - eqt)
}

// sunAngleTime inverts the spherical triangle to find the clock hour at which
// the sun reaches the given altitude angle below the horizon. Direction is -1
// for morning events and +1 for evening events.
//
// The acos argument is clamped to [-1, 1]: a saturated value means the sun
// never reaches the angle on this date, which is the correct physical answer,
// not an error. The denominator is zero only at the poles near an equinox;
// that query is outside the model's validity and fails.
func (c *PrayerCalculator) sunAngleTime(angle, eqt, decl, direction float64) (float64, error) {
	lat := Deg2Rad(c.coords.Latitude)
	noon := midDay(eqt)

	p1 := -math.Sin(Deg2Rad(angle)) - math.Sin(Deg2Rad(decl))*math.Sin(lat)
	p2 := math.Cos(Deg2Rad(decl)) * math.Cos(lat)

	if p2 == 0 {
		return 0, fmt.Errorf("%w: division by zero in sun angle calculation", ErrCalculation)
	}

	t := Rad2Deg(math.Acos(clamp(p1/p2, -1, 1))) / 15.0
	return noon + direction*t, nil
}

// asrTime finds the hour at which an object's shadow is factor times its
// height plus the noon shadow. Factor is 1 for the standard schools and 2 for
// Hanafi.
func (c *PrayerCalculator) asrTime(factor, eqt, decl float64) (float64, error) {
	lat := Deg2Rad(c.coords.Latitude)
	declRad := Deg2Rad(decl)

	angle := -Rad2Deg(math.Atan(1.0 / (factor + math.Tan(math.Abs(lat-declRad)))))
	return c.sunAngleTime(angle, eqt, decl, +1)
}

// riseSetAngle is the solar dip angle for sunrise/sunset: the fixed empirical
// refraction constant plus an elevation correction.
func (c *PrayerCalculator) riseSetAngle() float64 {
	return 0.833 + 0.0347*math.Sqrt(c.coords.Elevation)
}

// adjustHighLatitudes caps Fajr and Isha for nights too short for the
// configured angles. A field is overridden only when it is NaN or further
// from sunrise/sunset than the rule's night portion; a time already within
// the portion is left alone.
func (c *PrayerCalculator) adjustHighLatitudes(times RawTimes, rule HighLatitudeRule) RawTimes {
	nightTime := FixHour(times.Sunrise - times.Sunset)

	var fajrPortion, ishaPortion float64
	switch rule {
	case HighLatOneSeventh:
		fajrPortion = nightTime / 7.0
		ishaPortion = nightTime / 7.0
	case HighLatAngleBased:
		fajrPortion = c.settings.Fajr / 60.0 * nightTime
		// When Isha is a minute offset there is no angle to scale by; the
		// conventional 18 degree twilight stands in for it.
		ishaAngle := 18.0
		if !c.settings.Isha.IsMinutes() {
			ishaAngle = c.settings.Isha.Value()
		}
		ishaPortion = ishaAngle / 60.0 * nightTime
	default: // HighLatNightMiddle
		fajrPortion = nightTime / 2.0
		ishaPortion = nightTime / 2.0
	}

	if math.IsNaN(times.Fajr) || FixHour(times.Sunrise-times.Fajr) > fajrPortion {
		times.Fajr = times.Sunrise - fajrPortion
	}
	if math.IsNaN(times.Isha) || FixHour(times.Isha-times.Sunset) > ishaPortion {
		times.Isha = times.Sunset + ishaPortion
	}

	return times
}

// formatTime renders a fractional hour as a zoned DD/MM/YYYY HH:MM timestamp,
// applying the per-field minute adjustment with hour wrap. NaN renders as the
// InvalidTime sentinel.
func formatTime(t float64, date time.Time, adjustment int) string {
	if math.IsNaN(t) {
		return InvalidTime
	}

	hours := int(math.Floor(t))
	minutes := int(math.Round((t - math.Floor(t)) * 60.0))

	adjusted := minutes + adjustment
	switch {
	case adjusted >= 60:
		hours = (hours + 1) % 24
		adjusted -= 60
	case adjusted < 0:
		hours = (hours - 1 + 24) % 24
		adjusted += 60
	}

	stamp := time.Date(date.Year(), date.Month(), date.Day(), hours, adjusted, 0, 0, date.Location())
	return stamp.Format(timeLayout)
}

// clamp constrains v to [lo, hi]. NaN passes through.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
