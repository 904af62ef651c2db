// Package fetch supplies raw extractor results to the pipeline. It is the
// boundary to the result-storage collaborator: the core never cares whether
// payloads came from local disk or a result service, only that it receives
// one raw JSON payload per result key for an asset.
package fetch

import (
	"context"
	"encoding/json"
)

// Source loads every available raw result payload for an asset, keyed by
// result key.
type Source interface {
	Load(ctx context.Context, assetID string) (map[string]json.RawMessage, error)
}
