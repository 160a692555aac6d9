package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"go.ngs.io/salah-api/internal/adapter/cache"
	"go.ngs.io/salah-api/internal/domain"
)

const kaabaDescription = "Holy Kaaba, Masjid al-Haram, Mecca, Saudi Arabia"

// QiblaRequest is an observer position for qibla calculation.
type QiblaRequest struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *float64 `json:"elevation,omitempty"`
}

// LocationInfo describes one endpoint of the qibla path.
type LocationInfo struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Elevation   float64 `json:"elevation"`
	Description string  `json:"description,omitempty"`
}

// QiblaResponse is the basic qibla result.
type QiblaResponse struct {
	QiblaDirection        float64      `json:"qibla_direction"`
	QiblaDirectionCompass string       `json:"qibla_direction_compass"`
	DistanceKm            float64      `json:"distance_km"`
	Location              LocationInfo `json:"location"`
	KaabaLocation         LocationInfo `json:"kaaba_location"`
	CalculationMethod     string       `json:"calculation_method"`
	CalculationTime       string       `json:"calculation_time"`
}

// QiblaDetailed extends QiblaResponse with the reverse bearing, imperial
// distance, and advisory coordinate validation.
type QiblaDetailed struct {
	QiblaDirection          float64                      `json:"qibla_direction"`
	QiblaDirectionCompass   string                       `json:"qibla_direction_compass"`
	DistanceKm              float64                      `json:"distance_km"`
	DistanceMiles           float64                      `json:"distance_miles"`
	BearingFromKaaba        float64                      `json:"bearing_from_kaaba"`
	BearingFromKaabaCompass string                       `json:"bearing_from_kaaba_compass"`
	Location                LocationInfo                 `json:"location"`
	KaabaLocation           LocationInfo                 `json:"kaaba_location"`
	CalculationMethod       string                       `json:"calculation_method"`
	CalculationTime         string                       `json:"calculation_time"`
	CoordinatesValidation   domain.CoordinatesValidation `json:"coordinates_validation"`
}

// QiblaUseCase computes qibla direction and distance for an observer.
type QiblaUseCase struct {
	cache cache.Cache
	now   func() time.Time
}

// NewQiblaUseCase creates a new qibla use case.
func NewQiblaUseCase(c cache.Cache) *QiblaUseCase {
	return &QiblaUseCase{cache: c, now: time.Now}
}

// Validate checks if the request is valid.
func (r *QiblaRequest) Validate() error {
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrInvalidInput)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrInvalidInput)
	}
	if r.Elevation != nil && (*r.Elevation < -500 || *r.Elevation > 10000) {
		return fmt.Errorf("%w: elevation must be between -500 and 10000 meters", domain.ErrInvalidInput)
	}
	return nil
}

func (r *QiblaRequest) elevation() float64 {
	if r.Elevation == nil {
		return 0
	}
	return *r.Elevation
}

// Execute computes the basic qibla result.
func (uc *QiblaUseCase) Execute(ctx context.Context, req QiblaRequest) (*QiblaResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := qiblaCacheKey(req, false)
	if payload, ok := uc.cache.Get(ctx, key); ok {
		var cached QiblaResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
	}

	direction := domain.QiblaBearing(req.Latitude, req.Longitude)
	resp := &QiblaResponse{
		QiblaDirection:        direction,
		QiblaDirectionCompass: domain.CompassLabel(direction),
		DistanceKm:            domain.DistanceToKaabaKm(req.Latitude, req.Longitude),
		Location:              uc.observerInfo(req),
		KaabaLocation:         kaabaInfo(),
		CalculationMethod:     "Great Circle Method (Haversine Formula)",
		CalculationTime:       uc.now().UTC().Format(time.RFC3339),
	}

	if payload, err := json.Marshal(resp); err == nil {
		uc.cache.Set(ctx, key, payload, cacheTTL)
	}
	return resp, nil
}

// ExecuteDetailed computes the extended qibla result.
func (uc *QiblaUseCase) ExecuteDetailed(ctx context.Context, req QiblaRequest) (*QiblaDetailed, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := qiblaCacheKey(req, true)
	if payload, ok := uc.cache.Get(ctx, key); ok {
		var cached QiblaDetailed
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
	}

	direction := domain.QiblaBearing(req.Latitude, req.Longitude)
	reverse := domain.BearingFromKaaba(req.Latitude, req.Longitude)
	distanceKm := domain.DistanceToKaabaKm(req.Latitude, req.Longitude)

	resp := &QiblaDetailed{
		QiblaDirection:          direction,
		QiblaDirectionCompass:   domain.CompassLabel(direction),
		DistanceKm:              distanceKm,
		DistanceMiles:           domain.KmToMiles(distanceKm),
		BearingFromKaaba:        reverse,
		BearingFromKaabaCompass: domain.CompassLabel(reverse),
		Location:                uc.observerInfo(req),
		KaabaLocation:           kaabaInfo(),
		CalculationMethod:       "Great Circle Method (Haversine Formula)",
		CalculationTime:         uc.now().UTC().Format(time.RFC3339),
		CoordinatesValidation:   domain.ValidateCoordinates(req.Latitude, req.Longitude, req.elevation()),
	}

	if payload, err := json.Marshal(resp); err == nil {
		uc.cache.Set(ctx, key, payload, cacheTTL)
	}
	return resp, nil
}

func (uc *QiblaUseCase) observerInfo(req QiblaRequest) LocationInfo {
	return LocationInfo{
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Elevation:   req.elevation(),
		Description: domain.LocationDescription(req.Latitude, req.Longitude, req.elevation()),
	}
}

func kaabaInfo() LocationInfo {
	return LocationInfo{
		Latitude:    domain.KaabaLatitude,
		Longitude:   domain.KaabaLongitude,
		Elevation:   domain.KaabaElevation,
		Description: kaabaDescription,
	}
}

// qiblaCacheKey hashes the observer position; basic and detailed responses
// cache under distinct keys.
func qiblaCacheKey(req QiblaRequest, detailed bool) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%v:%v:%v:%v", req.Latitude, req.Longitude, req.elevation(), detailed)
	return fmt.Sprintf("qibla:%x", h.Sum64())
}
