package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/salah-api/internal/adapter/cache"
	"go.ngs.io/salah-api/internal/adapter/store/csv"
	"go.ngs.io/salah-api/internal/domain"
	"go.ngs.io/salah-api/internal/usecase"
)

// Handler handles HTTP requests for prayer times and qibla direction.
type Handler struct {
	prayerUC  *usecase.PrayerTimesUseCase
	qiblaUC   *usecase.QiblaUseCase
	preferred *csv.PreferredMethodStore
	cache     cache.Cache
}

// NewHandler creates a new HTTP handler.
func NewHandler(prayerUC *usecase.PrayerTimesUseCase, qiblaUC *usecase.QiblaUseCase, preferred *csv.PreferredMethodStore, c cache.Cache) *Handler {
	return &Handler{
		prayerUC:  prayerUC,
		qiblaUC:   qiblaUC,
		preferred: preferred,
		cache:     c,
	}
}

// statusFor maps the calculation error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCalculation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrDateParsing),
		errors.Is(err, domain.ErrTimezoneParsing):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PostPrayerTimes handles POST /v1/prayer-times.
func (h *Handler) PostPrayerTimes(c *gin.Context) {
	var req usecase.PrayerTimesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	resp, err := h.prayerUC.Execute(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// parseQiblaQuery reads lat/lng/elevation query parameters.
func parseQiblaQuery(c *gin.Context) (usecase.QiblaRequest, error) {
	var req usecase.QiblaRequest

	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr == "" || lngStr == "" {
		return req, fmt.Errorf("lat and lng parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return req, fmt.Errorf("invalid latitude: %v", err)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return req, fmt.Errorf("invalid longitude: %v", err)
	}
	req.Latitude = lat
	req.Longitude = lng

	if elevStr := c.Query("elevation"); elevStr != "" {
		elev, err := strconv.ParseFloat(elevStr, 64)
		if err != nil {
			return req, fmt.Errorf("invalid elevation: %v", err)
		}
		req.Elevation = &elev
	}
	return req, nil
}

// GetQibla handles GET /v1/qibla.
func (h *Handler) GetQibla(c *gin.Context) {
	req, err := parseQiblaQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.qiblaUC.Execute(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PostQibla handles POST /v1/qibla with a JSON body.
func (h *Handler) PostQibla(c *gin.Context) {
	var req usecase.QiblaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	resp, err := h.qiblaUC.Execute(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetQiblaDetailed handles GET /v1/qibla/detailed.
func (h *Handler) GetQiblaDetailed(c *gin.Context) {
	req, err := parseQiblaQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.qiblaUC.ExecuteDetailed(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MethodInfo describes one named calculation convention.
type MethodInfo struct {
	Name      string                `json:"name"`
	Settings  domain.MethodSettings `json:"settings"`
	Countries []string              `json:"countries,omitempty"`
}

// GetMethods handles GET /v1/methods.
func (h *Handler) GetMethods(c *gin.Context) {
	methods := domain.AllMethods()
	response := make([]MethodInfo, 0, len(methods))
	for _, m := range methods {
		settings, err := m.Settings()
		if err != nil {
			continue
		}
		response = append(response, MethodInfo{
			Name:      string(m),
			Settings:  settings,
			Countries: h.preferred.CountriesForMethod(m),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"methods": response,
		"count":   len(response),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	status := "ok"
	cacheStatus := "ok"
	if err := h.cache.Ping(c.Request.Context()); err != nil {
		cacheStatus = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"cache":  cacheStatus,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
