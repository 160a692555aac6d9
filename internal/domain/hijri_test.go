package domain

import (
	"errors"
	"testing"
)

// TestGregorianToHijri_KnownDates checks the tabular conversion against
// published civil-calendar correspondences.
func TestGregorianToHijri_KnownDates(t *testing.T) {
	tests := []struct {
		gy, gm, gd int
		want       HijriDate
	}{
		// 1 January 2000 was 24 Ramadan 1420.
		{2000, 1, 1, HijriDate{Year: 1420, Month: 9, Day: 24}},
		// Civil 1 Ramadan 1445 fell on 11 March 2024.
		{2024, 3, 11, HijriDate{Year: 1445, Month: 9, Day: 1}},
	}

	for _, tt := range tests {
		got := GregorianToHijri(tt.gy, tt.gm, tt.gd)
		if got != tt.want {
			t.Errorf("GregorianToHijri(%d, %d, %d) = %+v, want %+v", tt.gy, tt.gm, tt.gd, got, tt.want)
		}
	}
}

// TestHijriRoundTrip checks Gregorian -> Hijri -> Gregorian is lossless for a
// spread of dates.
func TestHijriRoundTrip(t *testing.T) {
	dates := [][3]int{
		{2000, 1, 1},
		{2024, 3, 11},
		{2025, 8, 30},
		{1999, 12, 31},
		{2030, 6, 15},
	}

	for _, d := range dates {
		h := GregorianToHijri(d[0], d[1], d[2])
		gy, gm, gd, err := HijriToGregorian(h.Year, h.Month, h.Day)
		if err != nil {
			t.Fatalf("HijriToGregorian(%+v): %v", h, err)
		}
		if gy != d[0] || gm != d[1] || gd != d[2] {
			t.Errorf("round trip %v -> %+v -> %d-%d-%d", d, h, gy, gm, gd)
		}
	}
}

// TestHijriToGregorian_Invalid checks component range validation.
func TestHijriToGregorian_Invalid(t *testing.T) {
	bad := [][3]int{
		{0, 1, 1},
		{1446, 0, 1},
		{1446, 13, 1},
		{1446, 1, 0},
		{1446, 1, 31},
	}

	for _, d := range bad {
		if _, _, _, err := HijriToGregorian(d[0], d[1], d[2]); !errors.Is(err, ErrDateParsing) {
			t.Errorf("HijriToGregorian(%v) should fail with a date parsing error, got %v", d, err)
		}
	}
}

// TestHijriFormat checks the DD/MM/YYYY rendering.
func TestHijriFormat(t *testing.T) {
	h := HijriDate{Year: 1447, Month: 3, Day: 7}
	if got := h.Format(); got != "07/03/1447" {
		t.Errorf("Format() = %q", got)
	}
}
