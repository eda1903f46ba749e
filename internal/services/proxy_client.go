package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alimgiray/commitboard/internal/models"
)

// ProxyClient calls the stats proxy endpoint over HTTP
type ProxyClient struct {
	url        string
	httpClient *http.Client
}

func NewProxyClient(url string, timeout time.Duration) *ProxyClient {
	return &ProxyClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchStats posts the roster to the proxy and decodes the aggregated response
func (c *ProxyClient) FetchStats(ctx context.Context, team []models.TeamMember) (models.AggregatedResponse, error) {
	payload, err := json.Marshal(models.StatsRequest{Team: team})
	if err != nil {
		return models.AggregatedResponse{}, fmt.Errorf("failed to encode team: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return models.AggregatedResponse{}, fmt.Errorf("%w: %v", ErrProxyRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.AggregatedResponse{}, fmt.Errorf("%w: %v", ErrProxyRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.AggregatedResponse{}, fmt.Errorf("%w: failed to read response body: %v", ErrProxyRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
			return models.AggregatedResponse{}, fmt.Errorf("%w: status %d: %s", ErrProxyRequest, resp.StatusCode, errBody.Error)
		}
		return models.AggregatedResponse{}, fmt.Errorf("%w: status %d", ErrProxyRequest, resp.StatusCode)
	}

	var aggregated models.AggregatedResponse
	if err := json.Unmarshal(body, &aggregated); err != nil {
		return models.AggregatedResponse{}, fmt.Errorf("%w: failed to decode response: %v", ErrProxyRequest, err)
	}
	return aggregated, nil
}
