package timezone

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubServers(t *testing.T, geocodeBody string, geocodeStatus int, tzBody string, tzStatus int) (string, string) {
	t.Helper()

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		w.WriteHeader(geocodeStatus)
		_, _ = w.Write([]byte(geocodeBody))
	}))
	t.Cleanup(geo.Close)

	tz := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("latitude"))
		w.WriteHeader(tzStatus)
		_, _ = w.Write([]byte(tzBody))
	}))
	t.Cleanup(tz.Close)

	return geo.URL, tz.URL
}

func TestResolveHappyPath(t *testing.T) {
	geoURL, tzURL := stubServers(t,
		`[{"lat":"50.4501","lon":"30.5234"}]`, http.StatusOK,
		`{"timeZone":"Europe/Kiev"}`, http.StatusOK,
	)

	r := NewResolverWithEndpoints(zerolog.Nop(), geoURL, tzURL)

	res, err := r.Resolve(context.Background(), "вул. Хрещатик 1, Київ")
	require.NoError(t, err)

	assert.Equal(t, "Europe/Kiev", res.Timezone)
	assert.InDelta(t, 50.4501, res.Latitude, 0.0001)
	assert.InDelta(t, 30.5234, res.Longitude, 0.0001)
}

func TestResolveFailsOnEmptyGeocodeResults(t *testing.T) {
	geoURL, tzURL := stubServers(t,
		`[]`, http.StatusOK,
		`{"timeZone":"Europe/Kiev"}`, http.StatusOK,
	)

	r := NewResolverWithEndpoints(zerolog.Nop(), geoURL, tzURL)

	_, err := r.Resolve(context.Background(), "nowhere")
	assert.Error(t, err)
}

func TestResolveFailsOnTimezoneAPIError(t *testing.T) {
	geoURL, tzURL := stubServers(t,
		`[{"lat":"50.4501","lon":"30.5234"}]`, http.StatusOK,
		``, http.StatusBadGateway,
	)

	r := NewResolverWithEndpoints(zerolog.Nop(), geoURL, tzURL)

	_, err := r.Resolve(context.Background(), "Kyiv")
	assert.Error(t, err)
}

func TestResolveRejectsInvalidZoneName(t *testing.T) {
	geoURL, tzURL := stubServers(t,
		`[{"lat":"50.4501","lon":"30.5234"}]`, http.StatusOK,
		`{"timeZone":"Not/AZone"}`, http.StatusOK,
	)

	r := NewResolverWithEndpoints(zerolog.Nop(), geoURL, tzURL)

	_, err := r.Resolve(context.Background(), "Kyiv")
	assert.Error(t, err)
}
