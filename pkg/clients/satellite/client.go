package satellite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mawucano-design/diagnostico-forrajero/internal/config"
)

// Client exposes the vegetation-index operations used by the application.
type Client interface {
	MeanIndex(ctx context.Context, req IndexRequest) (float64, error)
}

// IndexRequest describes one statistics query: the parcel geometry (GeoJSON,
// passed through untouched) and the acquisition window. A zero MaxCloudPct
// falls back to the client's configured filter.
type IndexRequest struct {
	Geometry    json.RawMessage
	From        time.Time
	To          time.Time
	MaxCloudPct int
}

// APIClient is a resty-backed implementation of Client for a Sentinel-Hub
// style statistics API with OAuth2 client-credentials authentication.
type APIClient struct {
	httpClient   *resty.Client
	clientID     string
	clientSecret string
	collection   string
	maxCloudPct  int

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient builds a satellite API client using the provided configuration values.
func NewClient(cfg config.SatelliteConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &APIClient{
		httpClient:   restyClient,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		collection:   cfg.Collection,
		maxCloudPct:  cfg.MaxCloudPct,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// statisticsResponse mirrors the subset of the statistics payload we consume.
type statisticsResponse struct {
	Data []struct {
		Outputs map[string]struct {
			Bands map[string]struct {
				Stats struct {
					Mean float64 `json:"mean"`
				} `json:"stats"`
			} `json:"bands"`
		} `json:"outputs"`
	} `json:"data"`
}

// apiError represents the provider's error payload.
type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// MeanIndex fetches the mean vegetation index over the geometry for the
// requested window.
func (c *APIClient) MeanIndex(ctx context.Context, req IndexRequest) (float64, error) {
	token, err := c.token(ctx)
	if err != nil {
		return 0, err
	}

	maxCloud := req.MaxCloudPct
	if maxCloud <= 0 {
		maxCloud = c.maxCloudPct
	}

	payload := map[string]any{
		"input": map[string]any{
			"bounds": map[string]any{
				"geometry": req.Geometry,
			},
			"data": []map[string]any{{
				"type": c.collection,
				"dataFilter": map[string]any{
					"maxCloudCoverage": maxCloud,
				},
			}},
		},
		"aggregation": map[string]any{
			"timeRange": map[string]any{
				"from": req.From.UTC().Format(time.RFC3339),
				"to":   req.To.UTC().Format(time.RFC3339),
			},
			"aggregationInterval": map[string]any{"of": "P1D"},
			"evalscript":          ndviEvalscript,
		},
	}

	result := new(statisticsResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post("/api/v1/statistics")
	if err != nil {
		return 0, fmt.Errorf("fetch index statistics: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		code := resp.StatusCode()
		if apiErr != nil {
			message = apiErr.Error.Message
			if apiErr.Error.Status != 0 {
				code = apiErr.Error.Status
			}
		}
		return 0, fmt.Errorf("satellite api error: code=%d, message=%s", code, message)
	}

	for _, entry := range result.Data {
		if output, ok := entry.Outputs["ndvi"]; ok {
			if band, ok := output.Bands["B0"]; ok {
				return band.Stats.Mean, nil
			}
		}
	}
	return 0, fmt.Errorf("satellite api returned no usable index statistics")
}

// token returns a cached access token, refreshing it through the
// client-credentials grant when missing or about to expire.
func (c *APIClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-30*time.Second)) {
		return c.accessToken, nil
	}

	result := new(tokenResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     c.clientID,
			"client_secret": c.clientSecret,
		}).
		SetResult(result).
		Post("/oauth/token")
	if err != nil {
		return "", fmt.Errorf("fetch oauth token: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest || result.AccessToken == "" {
		return "", fmt.Errorf("oauth token request failed: status=%d", resp.StatusCode())
	}

	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

const ndviEvalscript = `//VERSION=3
function setup() {
  return {
    input: [{bands: ["B04", "B08", "dataMask"]}],
    output: [{id: "ndvi", bands: 1}, {id: "dataMask", bands: 1}]
  };
}
function evaluatePixel(samples) {
  let ndvi = (samples.B08 - samples.B04) / (samples.B08 + samples.B04);
  return {ndvi: [ndvi], dataMask: [samples.dataMask]};
}`
