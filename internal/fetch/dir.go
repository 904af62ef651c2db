package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// DirSource reads raw results from <root>/<assetID>/<result_key>.json, the
// layout the extraction jobs deposit on shared storage.
type DirSource struct {
	root string
	log  *logrus.Entry
}

// NewDirSource creates a source rooted at the given results directory.
func NewDirSource(root string) *DirSource {
	return &DirSource{
		root: root,
		log:  logrus.WithField("component", "fetch-dir"),
	}
}

// Load reads every *.json file in the asset's directory. Files that are not
// valid JSON are skipped with a warning; the asset directory itself must
// exist.
func (s *DirSource) Load(ctx context.Context, assetID string) (map[string]json.RawMessage, error) {
	dir := filepath.Join(s.root, assetID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading results for asset %s: %w", assetID, err)
	}

	out := make(map[string]json.RawMessage)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if !json.Valid(data) {
			s.log.WithFields(logrus.Fields{"asset_id": assetID, "file": name}).
				Warn("skipping invalid JSON result file")
			continue
		}
		out[strings.TrimSuffix(name, ".json")] = json.RawMessage(data)
	}
	return out, nil
}
