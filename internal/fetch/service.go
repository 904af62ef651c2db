package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ServiceSource fetches raw results from the platform result service:
// GET {base}/assets/{asset_id}/results returns {"results": {key: payload}}.
type ServiceSource struct {
	client *resty.Client
}

// NewServiceSource creates a source against the given service base URL.
func NewServiceSource(baseURL string) *ServiceSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetRetryCount(2)
	return &ServiceSource{client: client}
}

type resultsEnvelope struct {
	Results map[string]json.RawMessage `json:"results"`
}

// Load fetches all result payloads for one asset.
func (s *ServiceSource) Load(ctx context.Context, assetID string) (map[string]json.RawMessage, error) {
	var envelope resultsEnvelope
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&envelope).
		SetPathParam("assetID", assetID).
		Get("/assets/{assetID}/results")
	if err != nil {
		return nil, fmt.Errorf("fetching results for asset %s: %w", assetID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching results for asset %s: %s", assetID, resp.Status())
	}
	if envelope.Results == nil {
		return map[string]json.RawMessage{}, nil
	}
	return envelope.Results, nil
}
