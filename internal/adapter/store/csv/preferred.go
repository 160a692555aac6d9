// Package csv provides CSV-based country-to-method preference loading.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"go.ngs.io/salah-api/internal/domain"
)

// PreferredMethodStore maps country names (lowercased) to their preferred
// calculation method. Read-only after Load.
type PreferredMethodStore struct {
	methods map[string]domain.Method
}

// Load builds the store from a CSV file with a `country,alternative,method`
// header. A missing or unreadable file falls back to the built-in default
// mapping; individually malformed rows are skipped with a warning.
func Load(path string) *PreferredMethodStore {
	methods := make(map[string]domain.Method)

	file, err := os.Open(path) //nolint:gosec // G304: path comes from configuration.
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("preferred methods file unavailable, using defaults")
		loadDefaults(methods)
		return &PreferredMethodStore{methods: methods}
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil || len(header) != 3 || header[0] != "country" || header[1] != "alternative" || header[2] != "method" {
		log.Warn().Str("path", path).Msg("invalid preferred methods header, using defaults")
		loadDefaults(methods)
		return &PreferredMethodStore{methods: methods}
	}

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Msg("failed to parse preferred method record")
			continue
		}

		method, err := domain.ParseMethod(record[2])
		if err != nil {
			log.Warn().Str("country", record[0]).Str("method", record[2]).Msg("unknown method in preferred record")
			continue
		}

		methods[strings.ToLower(strings.TrimSpace(record[0]))] = method
		if alt := strings.ToLower(strings.TrimSpace(record[1])); alt != "" {
			methods[alt] = method
		}
		count++
	}

	log.Info().Int("count", count).Str("path", path).Msg("loaded preferred method mappings")
	return &PreferredMethodStore{methods: methods}
}

// Get returns the preferred method for a country, case-insensitively. A
// missing entry is a not-found condition: the caller must supply an explicit
// method instead.
func (s *PreferredMethodStore) Get(country string) (domain.Method, error) {
	method, ok := s.methods[strings.ToLower(strings.TrimSpace(country))]
	if !ok {
		return "", fmt.Errorf("%w: no preferred method for country %q, specify a method explicitly", domain.ErrNotFound, country)
	}
	return method, nil
}

// SupportedCountries lists every known country name, sorted.
func (s *PreferredMethodStore) SupportedCountries() []string {
	countries := make([]string, 0, len(s.methods))
	for country := range s.methods {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}

// CountriesForMethod lists the countries that prefer a given method.
func (s *PreferredMethodStore) CountriesForMethod(method domain.Method) []string {
	var countries []string
	for country, m := range s.methods {
		if m == method {
			countries = append(countries, country)
		}
	}
	sort.Strings(countries)
	return countries
}

// loadDefaults fills the map with the built-in mapping used when no CSV file
// is available.
func loadDefaults(methods map[string]domain.Method) {
	defaults := map[string]domain.Method{
		// Middle East.
		"saudi arabia":         domain.MethodMakkah,
		"uae":                  domain.MethodDubai,
		"united arab emirates": domain.MethodDubai,
		"kuwait":               domain.MethodKuwait,
		"qatar":                domain.MethodQatar,
		"iran":                 domain.MethodTehran,
		"iraq":                 domain.MethodKarachi,
		"syria":                domain.MethodKarachi,
		"lebanon":              domain.MethodKarachi,
		"jordan":               domain.MethodKarachi,
		"palestine":            domain.MethodKarachi,
		"israel":               domain.MethodKarachi,
		// South Asia.
		"pakistan":    domain.MethodKarachi,
		"india":       domain.MethodKarachi,
		"bangladesh":  domain.MethodKarachi,
		"afghanistan": domain.MethodKarachi,
		"sri lanka":   domain.MethodKarachi,
		"maldives":    domain.MethodKarachi,
		// Southeast Asia.
		"malaysia":  domain.MethodJakim,
		"singapore": domain.MethodSingapore,
		"indonesia": domain.MethodKarachi,
		"brunei":    domain.MethodSingapore,
		"thailand":  domain.MethodSingapore,
		// Africa.
		"egypt":        domain.MethodEgypt,
		"libya":        domain.MethodEgypt,
		"tunisia":      domain.MethodEgypt,
		"algeria":      domain.MethodEgypt,
		"morocco":      domain.MethodEgypt,
		"sudan":        domain.MethodKarachi,
		"south africa": domain.MethodKarachi,
		"nigeria":      domain.MethodKarachi,
		// Europe.
		"turkey":         domain.MethodDiyanet,
		"france":         domain.MethodUoif,
		"germany":        domain.MethodMwl,
		"uk":             domain.MethodMwl,
		"united kingdom": domain.MethodMwl,
		"netherlands":    domain.MethodMwl,
		"belgium":        domain.MethodMwl,
		"sweden":         domain.MethodMwl,
		"norway":         domain.MethodMwl,
		"denmark":        domain.MethodMwl,
		"russia":         domain.MethodRussia,
		// North America.
		"usa":           domain.MethodIsna,
		"united states": domain.MethodIsna,
		"canada":        domain.MethodIsna,
		"mexico":        domain.MethodIsna,
	}

	for country, method := range defaults {
		methods[country] = method
	}
}
