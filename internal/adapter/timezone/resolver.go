// Package timezone resolves request timezone strings to fixed UTC offsets.
package timezone

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.ngs.io/salah-api/internal/domain"
)

// Resolve parses a timezone string into a fixed-offset location. The string
// is either an IANA zone name ("Asia/Karachi") or a ±HH[:MM] offset. IANA
// zones are pinned to their UTC offset at the reference instant, so DST
// transitions inside a multi-day span do not shift individual days.
func Resolve(tz string, ref time.Time) (*time.Location, error) {
	tz = strings.TrimSpace(tz)

	if strings.HasPrefix(tz, "+") || strings.HasPrefix(tz, "-") {
		return resolveOffset(tz)
	}
	return resolveName(tz, ref)
}

// resolveName pins an IANA zone to its offset at the reference instant.
func resolveName(tz string, ref time.Time) (*time.Location, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timezone name %q", domain.ErrTimezoneParsing, tz)
	}

	name, offset := ref.In(loc).Zone()
	return time.FixedZone(name, offset), nil
}

// resolveOffset parses a ±HH[:MM] offset string.
func resolveOffset(tz string) (*time.Location, error) {
	parts := strings.Split(tz[1:], ":")

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hours in timezone offset %q", domain.ErrTimezoneParsing, tz)
	}

	minutes := 0
	if len(parts) > 1 {
		minutes, err = strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid minutes in timezone offset %q", domain.ErrTimezoneParsing, tz)
		}
	}

	if hours < -12 || hours > 14 {
		return nil, fmt.Errorf("%w: timezone offset hours must be between -12 and +14", domain.ErrTimezoneParsing)
	}
	if minutes < 0 || minutes > 59 {
		return nil, fmt.Errorf("%w: timezone offset minutes must be between 0 and 59", domain.ErrTimezoneParsing)
	}

	seconds := hours*3600 + minutes*60
	if strings.HasPrefix(tz, "-") {
		seconds = -seconds
	}

	return time.FixedZone(tz, seconds), nil
}
