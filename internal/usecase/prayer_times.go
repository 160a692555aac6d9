package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"go.ngs.io/salah-api/internal/adapter/cache"
	"go.ngs.io/salah-api/internal/adapter/store/csv"
	"go.ngs.io/salah-api/internal/adapter/timezone"
	"go.ngs.io/salah-api/internal/domain"
)

const (
	maxDayCount   = 366
	cacheTTL      = time.Hour
	hijriYearDays = 355
)

// DateSpan describes a run of days starting at an explicit date.
type DateSpan struct {
	Date string `json:"date"` // DD/MM/YYYY
	Days int    `json:"days"`
}

// MonthSpan names a Gregorian month by its English name or abbreviation.
type MonthSpan struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

// Timespan selects the range of days to calculate. Exactly one field may be
// set; an empty Timespan means one day starting today.
type Timespan struct {
	DaysFromToday *int       `json:"days_from_today,omitempty"`
	DaysFromDate  *DateSpan  `json:"days_from_date,omitempty"`
	Month         *MonthSpan `json:"month,omitempty"`
	GregorianYear *int       `json:"gregorian_year,omitempty"`
	HijriYear     *int       `json:"hijri_year,omitempty"`
}

func (t *Timespan) variantCount() int {
	n := 0
	if t.DaysFromToday != nil {
		n++
	}
	if t.DaysFromDate != nil {
		n++
	}
	if t.Month != nil {
		n++
	}
	if t.GregorianYear != nil {
		n++
	}
	if t.HijriYear != nil {
		n++
	}
	return n
}

// PrayerTimesRequest is the calculation request body.
type PrayerTimesRequest struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *float64 `json:"elevation,omitempty"`

	// Method selection. Exactly one of Method, Custom, or Country must be
	// provided; School and HighLat override whatever the selection yields.
	Method  *domain.Method           `json:"method,omitempty"`
	Custom  *domain.CustomMethod     `json:"custom,omitempty"`
	Country *string                  `json:"country,omitempty"`
	School  *domain.School           `json:"school,omitempty"`
	HighLat *domain.HighLatitudeRule `json:"high_lat,omitempty"`

	Timezone    string              `json:"timezone"`
	Timespan    *Timespan           `json:"timespan,omitempty"`
	Adjustments *domain.Adjustments `json:"adjustments,omitempty"`
}

// NextPrayer names the first prayer event after the request instant.
type NextPrayer struct {
	Name string `json:"name"`
	Time string `json:"time"` // DD/MM/YYYY HH:MM
}

// MetaData echoes the resolved inputs back to the caller.
type MetaData struct {
	Method          *domain.Method        `json:"method"`
	Settings        domain.MethodSettings `json:"settings"`
	Timezone        string                `json:"timezone"`
	Adjustments     *domain.Adjustments   `json:"adjustments"`
	Coordinates     domain.Coordinates    `json:"coordinates"`
	CalculationTime string                `json:"calculation_time"`
}

// PrayerTimesResponse is the calculation result.
type PrayerTimesResponse struct {
	QiblaDirection float64              `json:"qibla_direction"`
	Next           *NextPrayer          `json:"next"`
	Prayers        []domain.PrayerTimes `json:"prayers"`
	Meta           MetaData             `json:"meta"`
}

// PrayerTimesUseCase orchestrates prayer time calculation: method and
// timezone resolution, the per-day calculation loop, next-prayer lookup,
// and response caching.
type PrayerTimesUseCase struct {
	preferred *csv.PreferredMethodStore
	cache     cache.Cache
	now       func() time.Time
}

// NewPrayerTimesUseCase creates a new prayer times use case.
func NewPrayerTimesUseCase(preferred *csv.PreferredMethodStore, c cache.Cache) *PrayerTimesUseCase {
	return &PrayerTimesUseCase{
		preferred: preferred,
		cache:     c,
		now:       time.Now,
	}
}

// Validate checks if the request is valid.
func (r *PrayerTimesRequest) Validate() error {
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrInvalidInput)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrInvalidInput)
	}
	if r.Elevation != nil && (*r.Elevation < -500 || *r.Elevation > 10000) {
		return fmt.Errorf("%w: elevation must be between -500 and 10000 meters", domain.ErrInvalidInput)
	}
	if r.Timezone == "" {
		return fmt.Errorf("%w: timezone is required", domain.ErrInvalidInput)
	}
	if r.Method == nil && r.Custom == nil && r.Country == nil {
		return fmt.Errorf("%w: no method, custom method, or country provided", domain.ErrInvalidInput)
	}
	if r.Method != nil {
		if _, err := domain.ParseMethod(string(*r.Method)); err != nil {
			return err
		}
	}
	if r.Timespan != nil {
		if r.Timespan.variantCount() > 1 {
			return fmt.Errorf("%w: timespan variants are mutually exclusive", domain.ErrInvalidInput)
		}
		if d := r.Timespan.DaysFromToday; d != nil && (*d < 1 || *d > maxDayCount) {
			return fmt.Errorf("%w: days from today must be between 1 and %d", domain.ErrInvalidInput, maxDayCount)
		}
		if span := r.Timespan.DaysFromDate; span != nil && (span.Days < 1 || span.Days > maxDayCount) {
			return fmt.Errorf("%w: day count must be between 1 and %d", domain.ErrInvalidInput, maxDayCount)
		}
	}
	return nil
}

// Execute calculates prayer times for the requested span of days.
func (uc *PrayerTimesUseCase) Execute(ctx context.Context, req PrayerTimesRequest) (*PrayerTimesResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(req)
	if payload, ok := uc.cache.Get(ctx, key); ok {
		var cached PrayerTimesResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			log.Debug().Str("key", key).Msg("prayer times cache hit")
			return &cached, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	}

	loc, err := timezone.Resolve(req.Timezone, uc.now())
	if err != nil {
		return nil, err
	}

	elevation := 0.0
	if req.Elevation != nil {
		elevation = *req.Elevation
	}
	coords := domain.Coordinates{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Elevation: elevation,
	}

	settings, method, err := uc.resolveMethod(req)
	if err != nil {
		return nil, err
	}

	span := req.Timespan
	if span == nil || span.variantCount() == 0 {
		one := 1
		span = &Timespan{DaysFromToday: &one}
	}
	// Every span variant resolves to at most maxDayCount days: explicit day
	// counts are range-checked in Validate, and the calendar variants are
	// bounded by construction (month <= 31, year <= 366, Hijri year 355).
	start, dayCount, err := uc.resolveSpan(span, loc)
	if err != nil {
		return nil, err
	}

	var adjustments domain.Adjustments
	if req.Adjustments != nil {
		adjustments = *req.Adjustments
	}

	calc := domain.NewPrayerCalculator(coords, settings, adjustments)
	prayers := make([]domain.PrayerTimes, 0, dayCount)
	for i := 0; i < dayCount; i++ {
		day, err := calc.Calculate(start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		prayers = append(prayers, day)
	}

	next := nextPrayer(span, start, prayers, loc)

	// A single-day request computes an extra day so the next-prayer scan can
	// roll past midnight; the caller only sees the day they asked for.
	if span.DaysFromToday != nil && *span.DaysFromToday == 1 {
		prayers = prayers[:1]
	}

	resp := &PrayerTimesResponse{
		QiblaDirection: domain.QiblaBearing(coords.Latitude, coords.Longitude),
		Next:           next,
		Prayers:        prayers,
		Meta: MetaData{
			Method:          method,
			Settings:        settings,
			Timezone:        req.Timezone,
			Adjustments:     &adjustments,
			Coordinates:     coords,
			CalculationTime: uc.now().UTC().Format(time.RFC3339),
		},
	}

	if payload, err := json.Marshal(resp); err == nil {
		uc.cache.Set(ctx, key, payload, cacheTTL)
	}

	log.Info().
		Float64("lat", req.Latitude).
		Float64("lon", req.Longitude).
		Int("days", len(resp.Prayers)).
		Msg("calculated prayer times")
	return resp, nil
}

// resolveMethod picks the calculation settings for the request: an inline
// custom method wins over a named method, which wins over a country lookup.
func (uc *PrayerTimesUseCase) resolveMethod(req PrayerTimesRequest) (domain.MethodSettings, *domain.Method, error) {
	var settings domain.MethodSettings
	var method *domain.Method

	switch {
	case req.Custom != nil:
		s, err := req.Custom.Settings()
		if err != nil {
			return domain.MethodSettings{}, nil, err
		}
		settings = s
	case req.Method != nil:
		m, err := domain.ParseMethod(string(*req.Method))
		if err != nil {
			return domain.MethodSettings{}, nil, err
		}
		s, err := m.Settings()
		if err != nil {
			return domain.MethodSettings{}, nil, err
		}
		settings = s
		method = &m
	default:
		m, err := uc.preferred.Get(*req.Country)
		if err != nil {
			return domain.MethodSettings{}, nil, err
		}
		s, err := m.Settings()
		if err != nil {
			return domain.MethodSettings{}, nil, err
		}
		settings = s
		method = &m
	}

	if req.HighLat != nil {
		settings.HighLat = req.HighLat
	}
	if req.School != nil {
		settings.School = *req.School
	}
	return settings, method, nil
}

// resolveSpan turns a Timespan into a start instant (noon, in the resolved
// zone) and a day count.
func (uc *PrayerTimesUseCase) resolveSpan(span *Timespan, loc *time.Location) (time.Time, int, error) {
	switch {
	case span.DaysFromToday != nil:
		days := *span.DaysFromToday
		start := uc.now().In(loc)
		if days == 1 {
			days = 2
		}
		return start, days, nil

	case span.DaysFromDate != nil:
		date, err := time.ParseInLocation("02/01/2006", span.DaysFromDate.Date, loc)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("%w: invalid date format, expected DD/MM/YYYY: %s",
				domain.ErrDateParsing, span.DaysFromDate.Date)
		}
		return date.Add(12 * time.Hour), span.DaysFromDate.Days, nil

	case span.Month != nil:
		month, err := parseMonthName(span.Month.Month)
		if err != nil {
			return time.Time{}, 0, err
		}
		start := time.Date(span.Month.Year, month, 1, 12, 0, 0, 0, loc)
		return start, daysInMonth(span.Month.Year, month), nil

	case span.GregorianYear != nil:
		year := *span.GregorianYear
		start := time.Date(year, time.January, 1, 12, 0, 0, 0, loc)
		days := 365
		if isLeapYear(year) {
			days = 366
		}
		return start, days, nil

	case span.HijriYear != nil:
		gy, gm, gd, err := domain.HijriToGregorian(*span.HijriYear, 1, 1)
		if err != nil {
			return time.Time{}, 0, err
		}
		start := time.Date(gy, time.Month(gm), gd, 12, 0, 0, 0, loc)
		return start, hijriYearDays, nil
	}

	return time.Time{}, 0, fmt.Errorf("%w: empty timespan", domain.ErrInvalidInput)
}

// nextPrayer scans the computed days for the first prayer event after the
// request instant. Only meaningful for "days from today" spans, where the
// span starts now.
func nextPrayer(span *Timespan, now time.Time, prayers []domain.PrayerTimes, loc *time.Location) *NextPrayer {
	if span.DaysFromToday == nil {
		return nil
	}

	for _, day := range prayers {
		candidates := []struct {
			name string
			time string
		}{
			{"Imsak", day.Imsak},
			{"Fajr", day.Fajr},
			{"Dhuhr", day.Dhuhr},
			{"Asr", day.Asr},
			{"Maghrib", day.Maghrib},
			{"Isha", day.Isha},
		}
		for _, c := range candidates {
			t, err := time.ParseInLocation("02/01/2006 15:04", c.time, loc)
			if err != nil {
				continue
			}
			if t.After(now) {
				return &NextPrayer{Name: c.name, Time: c.time}
			}
		}
	}
	return nil
}

// cacheKey hashes every calculation-relevant request field into a stable key.
func cacheKey(req PrayerTimesRequest) string {
	payload, err := json.Marshal(req)
	if err != nil {
		payload = []byte(fmt.Sprintf("%v", req))
	}
	h := fnv.New64a()
	h.Write(payload)
	return fmt.Sprintf("prayer_times:%x", h.Sum64())
}

func parseMonthName(name string) (time.Month, error) {
	switch strings.ToLower(name) {
	case "january", "jan":
		return time.January, nil
	case "february", "feb":
		return time.February, nil
	case "march", "mar":
		return time.March, nil
	case "april", "apr":
		return time.April, nil
	case "may":
		return time.May, nil
	case "june", "jun":
		return time.June, nil
	case "july", "jul":
		return time.July, nil
	case "august", "aug":
		return time.August, nil
	case "september", "sep":
		return time.September, nil
	case "october", "oct":
		return time.October, nil
	case "november", "nov":
		return time.November, nil
	case "december", "dec":
		return time.December, nil
	}
	return 0, fmt.Errorf("%w: invalid month name: %s", domain.ErrInvalidInput, name)
}

func daysInMonth(year int, month time.Month) int {
	switch month {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
	return 31
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}
