package domain

import (
	"fmt"
	"math"
)

// Kaaba coordinates (most precise available).
const (
	KaabaLatitude  = 21.4224779
	KaabaLongitude = 39.8251832
	KaabaElevation = 333.0 // meters above sea level
)

// Earth radii used by the great-circle formulas.
const (
	EarthRadiusKm = 6371.0
	kmPerMile     = 1.0 / 0.621371
)

// compassSectors are the 16 compass labels, 22.5 degrees each, centered so
// that 0 plus or minus 11.25 degrees is N.
var compassSectors = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CoordinatesValidation carries advisory warnings about an observer
// coordinate. Warnings never block a response.
type CoordinatesValidation struct {
	IsValid     bool     `json:"is_valid"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// QiblaBearing returns the initial great-circle bearing from the observer to
// the Kaaba, in degrees normalized to [0, 360).
func QiblaBearing(lat, lon float64) float64 {
	return InitialBearing(lat, lon, KaabaLatitude, KaabaLongitude)
}

// BearingFromKaaba returns the initial bearing of the reverse path. It is
// generally not the qibla bearing plus 180.
func BearingFromKaaba(lat, lon float64) float64 {
	return InitialBearing(KaabaLatitude, KaabaLongitude, lat, lon)
}

// InitialBearing computes the initial great-circle bearing from point 1 to
// point 2 via the standard spherical formula, normalized to [0, 360).
func InitialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := Deg2Rad(lat1)
	rlat2 := Deg2Rad(lat2)
	dlon := Deg2Rad(lon2 - lon1)

	y := math.Sin(dlon) * math.Cos(rlat2)
	x := math.Cos(rlat1)*math.Sin(rlat2) - math.Sin(rlat1)*math.Cos(rlat2)*math.Cos(dlon)

	return roundTo(FixAngle(Rad2Deg(math.Atan2(y, x))), 6)
}

// DistanceToKaabaKm returns the great-circle distance from the observer to
// the Kaaba in kilometers.
func DistanceToKaabaKm(lat, lon float64) float64 {
	return HaversineKm(lat, lon, KaabaLatitude, KaabaLongitude)
}

// HaversineKm computes the great-circle distance between two coordinates on a
// sphere of radius EarthRadiusKm, rounded to two decimals.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := Deg2Rad(lat1)
	rlat2 := Deg2Rad(lat2)
	dlat := Deg2Rad(lat2 - lat1)
	dlon := Deg2Rad(lon2 - lon1)

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return roundTo(EarthRadiusKm*c, 2)
}

// KmToMiles converts kilometers to statute miles.
func KmToMiles(km float64) float64 {
	return roundTo(km/kmPerMile, 2)
}

// CompassLabel buckets a bearing into its 16-sector compass label, e.g.
// "NE (58.4°)".
func CompassLabel(deg float64) string {
	idx := int((deg+11.25)/22.5) % 16
	return fmt.Sprintf("%s (%g°)", compassSectors[idx], roundTo(deg, 1))
}

// LocationDescription renders a coordinate as a short human-readable string.
func LocationDescription(lat, lon, elevation float64) string {
	latDir := "N"
	if lat < 0 {
		latDir = "S"
	}
	lonDir := "E"
	if lon < 0 {
		lonDir = "W"
	}
	return fmt.Sprintf("%.4f°%s, %.4f°%s (Elevation: %.0fm)",
		math.Abs(lat), latDir, math.Abs(lon), lonDir, elevation)
}

// ValidateCoordinates runs the plausibility heuristics over an observer
// coordinate. The result is advisory only.
func ValidateCoordinates(lat, lon, elevation float64) CoordinatesValidation {
	warnings := []string{}
	suggestions := []string{}

	if lat == 0 && lon == 0 {
		warnings = append(warnings, "Coordinates are at 0°N, 0°E (Gulf of Guinea). Please verify this is correct.")
		suggestions = append(suggestions, "Double-check your GPS coordinates if this location seems incorrect.")
	}

	if likelyOceanCoordinates(lat, lon) {
		warnings = append(warnings, "Coordinates appear to be in an ocean area.")
		suggestions = append(suggestions, "Verify coordinates if you expected a land location.")
	}

	if elevation < -500 {
		warnings = append(warnings, "Elevation is unusually low (below sea level).")
	} else if elevation > 5000 {
		warnings = append(warnings, "Elevation is very high. Make sure this is accurate for better calculation precision.")
	}

	if DistanceToKaabaKm(lat, lon) < 1.0 {
		warnings = append(warnings, "You are very close to the Kaaba. Qibla direction may not be meaningful at this distance.")
		suggestions = append(suggestions, "If you are in Masjid al-Haram, face towards the center of the Kaaba.")
	}

	return CoordinatesValidation{
		IsValid:     true,
		Warnings:    warnings,
		Suggestions: suggestions,
	}
}

// likelyOceanCoordinates is a crude bounding-box heuristic for open-ocean
// coordinates. It exists to produce an advisory warning, nothing more.
func likelyOceanCoordinates(lat, lon float64) bool {
	// Atlantic, excluding the Europe/Africa and North America margins.
	if lat > -60 && lat < 70 && lon > -70 && lon < 20 &&
		!(lat > 35 && lon > -10) &&
		!(lat > 25 && lon > -100 && lon < -70) {
		return true
	}

	// Pacific, excluding the East Asia margin.
	if lat > -60 && lat < 70 &&
		((lon > 120 && lon <= 180) || (lon >= -180 && lon < -100)) &&
		!(lat > 30 && lon > 120 && lon < 150) {
		return true
	}

	return false
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(v*mult) / mult
}
