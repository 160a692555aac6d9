package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Method names a published prayer-time calculation convention.
type Method string

// Named calculation conventions. Angles and offsets come from the published
// authority specifications; they are a fixed data table, not computed.
const (
	MethodJafari       Method = "jafari"
	MethodKarachi      Method = "karachi"
	MethodIsna         Method = "isna"
	MethodMwl          Method = "mwl"
	MethodMakkah       Method = "makkah"
	MethodEgypt        Method = "egypt"
	MethodTehran       Method = "tehran"
	MethodGulf         Method = "gulf"
	MethodKuwait       Method = "kuwait"
	MethodQatar        Method = "qatar"
	MethodSingapore    Method = "singapore"
	MethodFrance       Method = "france"
	MethodTurkey       Method = "turkey"
	MethodRussia       Method = "russia"
	MethodMoonsighting Method = "moonsighting"
	MethodDubai        Method = "dubai"
	MethodUoif         Method = "uoif"    // Union of Islamic Organizations of France
	MethodDiyanet      Method = "diyanet" // Turkey Presidency of Religious Affairs
	MethodJakim        Method = "jakim"   // Malaysia
)

// ParseMethod resolves a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := methodTable[m]; !ok {
		return "", fmt.Errorf("%w: unknown method %q", ErrInvalidInput, s)
	}
	return m, nil
}

// School selects the Asr shadow-length convention.
type School int

const (
	// SchoolStandard uses shadow factor 1 (Shafi, Maliki, Hanbali).
	SchoolStandard School = iota
	// SchoolHanafi uses shadow factor 2.
	SchoolHanafi
)

// ShadowFactor returns the Asr shadow-length factor for the school.
func (s School) ShadowFactor() float64 {
	if s == SchoolHanafi {
		return 2.0
	}
	return 1.0
}

func (s School) String() string {
	if s == SchoolHanafi {
		return "hanafi"
	}
	return "standard"
}

// MarshalJSON encodes the school as its lowercase name.
func (s School) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a lowercase school name.
func (s *School) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch strings.ToLower(name) {
	case "standard":
		*s = SchoolStandard
	case "hanafi":
		*s = SchoolHanafi
	default:
		return fmt.Errorf("%w: unknown school %q", ErrInvalidInput, name)
	}
	return nil
}

// Midnight selects the midnight convention.
type Midnight int

const (
	// MidnightStandard is the middle of sunset to sunrise.
	MidnightStandard Midnight = iota
	// MidnightJafari is the middle of sunset to fajr.
	MidnightJafari
)

func (m Midnight) String() string {
	if m == MidnightJafari {
		return "jafari"
	}
	return "standard"
}

// MarshalJSON encodes the midnight convention as its lowercase name.
func (m Midnight) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a lowercase midnight convention name.
func (m *Midnight) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch strings.ToLower(name) {
	case "standard":
		*m = MidnightStandard
	case "jafari":
		*m = MidnightJafari
	default:
		return fmt.Errorf("%w: unknown midnight convention %q", ErrInvalidInput, name)
	}
	return nil
}

// HighLatitudeRule selects the correction heuristic applied when the night is
// too short for the configured Fajr/Isha angle to ever be reached.
type HighLatitudeRule int

const (
	// HighLatNightMiddle caps Fajr/Isha at half the night.
	HighLatNightMiddle HighLatitudeRule = iota
	// HighLatAngleBased caps them at angle/60 of the night.
	HighLatAngleBased
	// HighLatOneSeventh caps them at one seventh of the night.
	HighLatOneSeventh
)

func (r HighLatitudeRule) String() string {
	switch r {
	case HighLatAngleBased:
		return "anglebased"
	case HighLatOneSeventh:
		return "oneseventh"
	default:
		return "nightmiddle"
	}
}

// MarshalJSON encodes the rule as its lowercase name.
func (r HighLatitudeRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a lowercase rule name.
func (r *HighLatitudeRule) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch strings.ToLower(name) {
	case "nightmiddle":
		*r = HighLatNightMiddle
	case "anglebased":
		*r = HighLatAngleBased
	case "oneseventh":
		*r = HighLatOneSeventh
	default:
		return fmt.Errorf("%w: unknown high latitude rule %q", ErrInvalidInput, name)
	}
	return nil
}

// Shafaq selects the twilight shade used by the moonsighting convention.
type Shafaq int

const (
	// ShafaqGeneral is the general twilight.
	ShafaqGeneral Shafaq = iota
	// ShafaqAhmer is the red twilight.
	ShafaqAhmer
	// ShafaqAbyad is the white twilight.
	ShafaqAbyad
)

func (s Shafaq) String() string {
	switch s {
	case ShafaqAhmer:
		return "ahmer"
	case ShafaqAbyad:
		return "abyad"
	default:
		return "general"
	}
}

// MarshalJSON encodes the shafaq as its lowercase name.
func (s Shafaq) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a lowercase shafaq name.
func (s *Shafaq) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch strings.ToLower(name) {
	case "general":
		*s = ShafaqGeneral
	case "ahmer":
		*s = ShafaqAhmer
	case "abyad":
		*s = ShafaqAbyad
	default:
		return fmt.Errorf("%w: unknown shafaq %q", ErrInvalidInput, name)
	}
	return nil
}

// MinuteOrAngle is a tagged union: a prayer boundary defined either by a
// solar depression angle in degrees or by a fixed minute offset from another
// event. The two variants are mutually exclusive; consumers must branch on
// IsMinutes.
type MinuteOrAngle struct {
	minutes bool
	value   float64
}

// Angle builds the angle variant, in degrees.
func Angle(deg float64) MinuteOrAngle {
	return MinuteOrAngle{value: deg}
}

// Minutes builds the minute-offset variant.
func Minutes(min float64) MinuteOrAngle {
	return MinuteOrAngle{minutes: true, value: min}
}

// IsMinutes reports whether the value is a minute offset rather than an angle.
func (m MinuteOrAngle) IsMinutes() bool { return m.minutes }

// Value returns the degrees or minutes, depending on the variant.
func (m MinuteOrAngle) Value() float64 { return m.value }

// minuteOrAngleJSON is the wire form: exactly one of the two keys is present.
type minuteOrAngleJSON struct {
	Minute *float64 `json:"minute,omitempty"`
	Angle  *float64 `json:"angle,omitempty"`
}

// MarshalJSON encodes the populated variant under its own key.
func (m MinuteOrAngle) MarshalJSON() ([]byte, error) {
	v := m.value
	if m.minutes {
		return json.Marshal(minuteOrAngleJSON{Minute: &v})
	}
	return json.Marshal(minuteOrAngleJSON{Angle: &v})
}

// UnmarshalJSON decodes the wire form, rejecting zero or two variants.
func (m *MinuteOrAngle) UnmarshalJSON(data []byte) error {
	var raw minuteOrAngleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Minute != nil && raw.Angle != nil:
		return fmt.Errorf("%w: minute and angle are mutually exclusive", ErrInvalidInput)
	case raw.Minute != nil:
		*m = Minutes(*raw.Minute)
	case raw.Angle != nil:
		*m = Angle(*raw.Angle)
	default:
		return fmt.Errorf("%w: expected a minute or angle value", ErrInvalidInput)
	}
	return nil
}

// ParseMinuteOrAngle parses a user-supplied string: a bare number is degrees,
// "<number> min" is a minute offset.
func ParseMinuteOrAngle(s string) (MinuteOrAngle, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "min") {
		numStr := strings.TrimSpace(strings.TrimSuffix(s, "min"))
		min, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return MinuteOrAngle{}, fmt.Errorf("%w: invalid minute value %q", ErrInvalidInput, s)
		}
		return Minutes(min), nil
	}
	deg, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return MinuteOrAngle{}, fmt.Errorf("%w: invalid angle value %q", ErrInvalidInput, s)
	}
	return Angle(deg), nil
}

// MethodSettings is the canonical parameter set a request resolves to before
// any calculation runs.
type MethodSettings struct {
	Fajr     float64           `json:"fajr"` // Fajr depression angle in degrees.
	Isha     MinuteOrAngle     `json:"isha"` // Angle, or minutes after Maghrib.
	Midnight Midnight          `json:"midnight"`
	Maghrib  MinuteOrAngle     `json:"maghrib"` // Angle, or minutes after sunset.
	Imsak    MinuteOrAngle     `json:"imsak"`   // Angle, or minutes before Fajr.
	Dhuhr    float64           `json:"dhuhr"`   // Minutes added to local noon.
	Shafaq   *Shafaq           `json:"shafaq,omitempty"`
	School   School            `json:"school"`
	HighLat  *HighLatitudeRule `json:"high_lat,omitempty"`
}

// CustomMethod is a user-supplied parameterization. Isha, Maghrib and Imsak
// are strings so callers can write "4.5" (degrees) or "90 min".
type CustomMethod struct {
	Fajr     *float64          `json:"fajr,omitempty"`
	Isha     *string           `json:"isha,omitempty"`
	Midnight *Midnight         `json:"midnight,omitempty"`
	Maghrib  *string           `json:"maghrib,omitempty"`
	Imsak    *string           `json:"imsak,omitempty"`
	Dhuhr    *float64          `json:"dhuhr,omitempty"`
	Shafaq   *Shafaq           `json:"shafaq,omitempty"`
	School   *School           `json:"school,omitempty"`
	HighLat  *HighLatitudeRule `json:"high_lat,omitempty"`
}

// Settings resolves the custom method into a canonical parameter set,
// substituting the conventional defaults for absent fields.
func (c CustomMethod) Settings() (MethodSettings, error) {
	settings := MethodSettings{
		Fajr:     18.0,
		Isha:     Angle(18.0),
		Midnight: MidnightStandard,
		Maghrib:  Minutes(0),
		Imsak:    Minutes(10),
		Shafaq:   c.Shafaq,
		HighLat:  c.HighLat,
	}
	if c.Fajr != nil {
		settings.Fajr = *c.Fajr
	}
	if c.Dhuhr != nil {
		settings.Dhuhr = *c.Dhuhr
	}
	if c.Midnight != nil {
		settings.Midnight = *c.Midnight
	}
	if c.School != nil {
		settings.School = *c.School
	}

	var err error
	if c.Isha != nil {
		if settings.Isha, err = ParseMinuteOrAngle(*c.Isha); err != nil {
			return MethodSettings{}, err
		}
	}
	if c.Maghrib != nil {
		if settings.Maghrib, err = ParseMinuteOrAngle(*c.Maghrib); err != nil {
			return MethodSettings{}, err
		}
	}
	if c.Imsak != nil {
		if settings.Imsak, err = ParseMinuteOrAngle(*c.Imsak); err != nil {
			return MethodSettings{}, err
		}
	}
	return settings, nil
}

// shafaqGeneral backs the Moonsighting entry in the method table.
var shafaqGeneral = ShafaqGeneral

// methodTable maps each named convention to its fixed settings. Read-only
// after process start.
var methodTable = map[Method]MethodSettings{
	MethodMwl: {
		Fajr: 18.0, Isha: Angle(17.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodIsna: {
		Fajr: 15.0, Isha: Angle(15.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodEgypt: {
		Fajr: 19.5, Isha: Angle(17.5), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodMakkah: {
		Fajr: 18.5, Isha: Minutes(90), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodKarachi: {
		Fajr: 18.0, Isha: Angle(18.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodTehran: {
		Fajr: 17.7, Isha: Angle(14.0), Midnight: MidnightJafari,
		Maghrib: Angle(4.5), Imsak: Minutes(10),
	},
	MethodJafari: {
		Fajr: 16.0, Isha: Angle(14.0), Midnight: MidnightJafari,
		Maghrib: Angle(4.0), Imsak: Minutes(10),
	},
	MethodGulf: {
		Fajr: 19.5, Isha: Minutes(90), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodKuwait: {
		Fajr: 18.0, Isha: Angle(17.5), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodQatar: {
		Fajr: 18.0, Isha: Minutes(90), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodSingapore: {
		Fajr: 20.0, Isha: Angle(18.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodFrance: {
		Fajr: 12.0, Isha: Angle(12.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodUoif: {
		Fajr: 12.0, Isha: Angle(12.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodTurkey: {
		Fajr: 18.0, Isha: Angle(17.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodDiyanet: {
		Fajr: 18.0, Isha: Angle(17.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodRussia: {
		Fajr: 16.0, Isha: Angle(15.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodMoonsighting: {
		Fajr: 18.0, Isha: Angle(18.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10), Shafaq: &shafaqGeneral,
	},
	MethodDubai: {
		Fajr: 18.2, Isha: Angle(18.2), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
	MethodJakim: {
		Fajr: 20.0, Isha: Angle(18.0), Midnight: MidnightStandard,
		Maghrib: Minutes(0), Imsak: Minutes(10),
	},
}

// Settings returns the canonical parameter set for a named convention.
func (m Method) Settings() (MethodSettings, error) {
	settings, ok := methodTable[m]
	if !ok {
		return MethodSettings{}, fmt.Errorf("%w: unknown method %q", ErrInvalidInput, string(m))
	}
	return settings, nil
}

// AllMethods lists the named conventions in a stable order.
func AllMethods() []Method {
	return []Method{
		MethodJafari, MethodKarachi, MethodIsna, MethodMwl, MethodMakkah,
		MethodEgypt, MethodTehran, MethodGulf, MethodKuwait, MethodQatar,
		MethodSingapore, MethodFrance, MethodTurkey, MethodRussia,
		MethodMoonsighting, MethodDubai, MethodUoif, MethodDiyanet, MethodJakim,
	}
}
