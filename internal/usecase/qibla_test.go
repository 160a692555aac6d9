package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.ngs.io/salah-api/internal/adapter/cache"
	"go.ngs.io/salah-api/internal/domain"
)

func newQiblaUseCase() *QiblaUseCase {
	uc := NewQiblaUseCase(cache.NewMemory())
	uc.now = func() time.Time {
		return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	return uc
}

func TestQiblaExecuteNewYork(t *testing.T) {
	uc := newQiblaUseCase()

	resp, err := uc.Execute(context.Background(), QiblaRequest{
		Latitude:  40.7128,
		Longitude: -74.0060,
		Elevation: floatPtr(10),
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if resp.QiblaDirection <= 50 || resp.QiblaDirection >= 70 {
		t.Errorf("direction = %v, want (50, 70)", resp.QiblaDirection)
	}
	if resp.DistanceKm <= 10000 || resp.DistanceKm >= 10600 {
		t.Errorf("distance = %v km, want (10000, 10600)", resp.DistanceKm)
	}
	if resp.KaabaLocation.Latitude != domain.KaabaLatitude {
		t.Errorf("kaaba latitude = %v", resp.KaabaLocation.Latitude)
	}
	if resp.CalculationMethod != "Great Circle Method (Haversine Formula)" {
		t.Errorf("calculation method = %q", resp.CalculationMethod)
	}
	if resp.QiblaDirectionCompass == "" {
		t.Error("expected a compass label")
	}
}

func TestQiblaExecuteDetailed(t *testing.T) {
	uc := newQiblaUseCase()

	resp, err := uc.ExecuteDetailed(context.Background(), QiblaRequest{
		Latitude:  51.5074,
		Longitude: -0.1278,
	})
	if err != nil {
		t.Fatalf("execute detailed: %v", err)
	}

	if resp.QiblaDirection <= 100 || resp.QiblaDirection >= 140 {
		t.Errorf("direction = %v, want (100, 140)", resp.QiblaDirection)
	}
	if resp.DistanceMiles >= resp.DistanceKm {
		t.Errorf("miles %v should be less than km %v", resp.DistanceMiles, resp.DistanceKm)
	}
	if resp.BearingFromKaaba == resp.QiblaDirection {
		t.Error("reverse bearing should differ from forward bearing")
	}
	if resp.BearingFromKaabaCompass == "" {
		t.Error("expected a reverse compass label")
	}
	if !resp.CoordinatesValidation.IsValid {
		t.Errorf("London should validate cleanly: %+v", resp.CoordinatesValidation)
	}
}

func TestQiblaDetailedAdvisoryWarnings(t *testing.T) {
	uc := newQiblaUseCase()

	// Mid-Atlantic coordinates draw a warning but still produce a response.
	resp, err := uc.ExecuteDetailed(context.Background(), QiblaRequest{
		Latitude:  20,
		Longitude: -40,
	})
	if err != nil {
		t.Fatalf("execute detailed: %v", err)
	}
	if len(resp.CoordinatesValidation.Warnings) == 0 {
		t.Error("expected an ocean warning for mid-Atlantic coordinates")
	}
}

func TestQiblaValidation(t *testing.T) {
	uc := newQiblaUseCase()

	tests := []struct {
		name string
		req  QiblaRequest
	}{
		{"latitude", QiblaRequest{Latitude: 95, Longitude: 0}},
		{"longitude", QiblaRequest{Latitude: 0, Longitude: 200}},
		{"elevation", QiblaRequest{Latitude: 0, Longitude: 0, Elevation: floatPtr(10500)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Execute(context.Background(), tt.req); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}

	// High-altitude observers are within range.
	if _, err := uc.Execute(context.Background(), QiblaRequest{
		Latitude:  27.9881,
		Longitude: 86.9250,
		Elevation: floatPtr(8849),
	}); err != nil {
		t.Errorf("Everest coordinates should validate: %v", err)
	}
}

func TestQiblaCachedResponseStable(t *testing.T) {
	uc := newQiblaUseCase()
	req := QiblaRequest{Latitude: 24.8607, Longitude: 67.0011}

	first, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("first execute: %v", err)
	}
	second, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if *first != *second {
		t.Error("identical requests should return identical responses")
	}
}
