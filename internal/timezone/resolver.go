package timezone

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Resolver turns a street address into an IANA timezone:
// address -> coordinates (Nominatim) -> timezone (timeapi.io).
// Both calls are bounded; a failed resolution returns an error and the
// caller keeps the previously stored timezone.
type Resolver struct {
	client      *http.Client
	geocodeURL  string
	timezoneURL string
	log         zerolog.Logger
}

type Resolution struct {
	Timezone  string
	Latitude  float64
	Longitude float64
}

func NewResolver(log zerolog.Logger) *Resolver {
	return &Resolver{
		client:      &http.Client{Timeout: 5 * time.Second},
		geocodeURL:  "https://nominatim.openstreetmap.org/search",
		timezoneURL: "https://timeapi.io/api/timezone/coordinate",
		log:         log.With().Str("component", "timezone_resolver").Logger(),
	}
}

// NewResolverWithEndpoints is used by tests to point at local stubs.
func NewResolverWithEndpoints(log zerolog.Logger, geocodeURL, timezoneURL string) *Resolver {
	r := NewResolver(log)
	r.geocodeURL = geocodeURL
	r.timezoneURL = timezoneURL
	return r
}

func (r *Resolver) Resolve(ctx context.Context, address string) (*Resolution, error) {
	lat, lng, err := r.geocode(ctx, address)
	if err != nil {
		r.log.Warn().Err(err).Str("address", address).Msg("geocoding failed")
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}

	tz, err := r.timezoneAt(ctx, lat, lng)
	if err != nil {
		r.log.Warn().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("timezone lookup failed")
		return nil, fmt.Errorf("timezone at (%f, %f): %w", lat, lng, err)
	}

	if !IsValid(tz) {
		return nil, fmt.Errorf("resolved timezone %q is not a valid IANA zone", tz)
	}

	return &Resolution{Timezone: tz, Latitude: lat, Longitude: lng}, nil
}

func (r *Resolver) geocode(ctx context.Context, address string) (float64, float64, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.geocodeURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}
	// Nominatim rejects requests without a User-Agent.
	req.Header.Set("User-Agent", "salon-scheduler/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocoding results")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

func (r *Resolver) timezoneAt(ctx context.Context, lat, lng float64) (string, error) {
	u := fmt.Sprintf("%s?latitude=%f&longitude=%f", r.timezoneURL, lat, lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timezone api status %d", resp.StatusCode)
	}

	var body struct {
		TimeZone string `json:"timeZone"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.TimeZone == "" {
		return "", fmt.Errorf("empty timezone in response")
	}
	return body.TimeZone, nil
}
