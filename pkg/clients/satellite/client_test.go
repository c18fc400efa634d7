package satellite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawucano-design/diagnostico-forrajero/internal/config"
)

func newTestServer(t *testing.T, tokenCalls *atomic.Int32, statsHandler http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-client", r.PostForm.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-123", "expires_in": 3600})
	})
	mux.HandleFunc("/api/v1/statistics", statsHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(baseURL string) config.SatelliteConfig {
	return config.SatelliteConfig{
		BaseURL:      baseURL,
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		Collection:   "sentinel-2-l2a",
		MaxCloudPct:  20,
		Timeout:      5 * time.Second,
	}
}

func sampleIndexRequest() IndexRequest {
	return IndexRequest{
		Geometry:    json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`),
		From:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		MaxCloudPct: 20,
	}
}

func TestMeanIndex(t *testing.T) {
	var tokenCalls atomic.Int32
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload, "input")
		assert.Contains(t, payload, "aggregation")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"outputs":{"ndvi":{"bands":{"B0":{"stats":{"mean":0.47}}}}}}]}`))
	})

	client := NewClient(testConfig(server.URL))

	mean, err := client.MeanIndex(context.Background(), sampleIndexRequest())
	require.NoError(t, err)
	assert.InDelta(t, 0.47, mean, 1e-9)
}

func TestMeanIndexCloudFilter(t *testing.T) {
	statsBody := `{"data":[{"outputs":{"ndvi":{"bands":{"B0":{"stats":{"mean":0.4}}}}}}]}`

	var gotMaxCloud atomic.Int64
	var tokenCalls atomic.Int32
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Input struct {
				Data []struct {
					DataFilter struct {
						MaxCloudCoverage int64 `json:"maxCloudCoverage"`
					} `json:"dataFilter"`
				} `json:"data"`
			} `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Input.Data, 1)
		gotMaxCloud.Store(payload.Input.Data[0].DataFilter.MaxCloudCoverage)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(statsBody))
	})

	client := NewClient(testConfig(server.URL))

	t.Run("configured default applies when unset", func(t *testing.T) {
		req := sampleIndexRequest()
		req.MaxCloudPct = 0

		_, err := client.MeanIndex(context.Background(), req)
		require.NoError(t, err)
		assert.EqualValues(t, 20, gotMaxCloud.Load())
	})

	t.Run("explicit value wins", func(t *testing.T) {
		req := sampleIndexRequest()
		req.MaxCloudPct = 35

		_, err := client.MeanIndex(context.Background(), req)
		require.NoError(t, err)
		assert.EqualValues(t, 35, gotMaxCloud.Load())
	})
}

func TestMeanIndexTokenCached(t *testing.T) {
	var tokenCalls atomic.Int32
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"outputs":{"ndvi":{"bands":{"B0":{"stats":{"mean":0.3}}}}}}]}`))
	})

	client := NewClient(testConfig(server.URL))

	for i := 0; i < 3; i++ {
		_, err := client.MeanIndex(context.Background(), sampleIndexRequest())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestMeanIndexAPIError(t *testing.T) {
	var tokenCalls atomic.Int32
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"status":400,"message":"invalid geometry"}}`))
	})

	client := NewClient(testConfig(server.URL))

	_, err := client.MeanIndex(context.Background(), sampleIndexRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid geometry")
}

func TestMeanIndexNoUsableStatistics(t *testing.T) {
	var tokenCalls atomic.Int32
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	client := NewClient(testConfig(server.URL))

	_, err := client.MeanIndex(context.Background(), sampleIndexRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable index statistics")
}

func TestMeanIndexTokenFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(testConfig(server.URL))

	_, err := client.MeanIndex(context.Background(), sampleIndexRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oauth token request failed")
}
