package domain

import (
	"math"
	"testing"
)

// TestFixAngle checks angle normalization into [0, 360).
func TestFixAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{360, 0},
		{361, 1},
		{-1, 359},
		{720.5, 0.5},
		{-725, 355},
	}

	for _, tt := range tests {
		got := FixAngle(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("FixAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("FixAngle(%v) = %v out of [0, 360)", tt.in, got)
		}
	}
}

// TestFixHour checks hour normalization into [0, 24).
func TestFixHour(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{24, 0},
		{25.5, 1.5},
		{-0.5, 23.5},
		{-24, 0},
		{49, 1},
	}

	for _, tt := range tests {
		got := FixHour(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("FixHour(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= 24 {
			t.Errorf("FixHour(%v) = %v out of [0, 24)", tt.in, got)
		}
	}
}

// TestFixHour_NaN checks that NaN passes through normalization unchanged.
func TestFixHour_NaN(t *testing.T) {
	if !math.IsNaN(FixHour(math.NaN())) {
		t.Error("FixHour(NaN) should stay NaN")
	}
	if !math.IsNaN(FixAngle(math.NaN())) {
		t.Error("FixAngle(NaN) should stay NaN")
	}
}

// TestDegRadRoundTrip checks the degree/radian conversions agree.
func TestDegRadRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 180, 270, 359.9, -33.5} {
		got := Rad2Deg(Deg2Rad(deg))
		if math.Abs(got-deg) > 1e-12 {
			t.Errorf("Rad2Deg(Deg2Rad(%v)) = %v", deg, got)
		}
	}
}
