package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/aggregate"
	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/pipeline"
)

// Generates JSON Schema files for the two machine-consumed artifacts so the
// browsing UI and downstream jobs can validate what they read.
func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
	}

	emit(r, &aggregate.CompactExport{}, "Compact Timed-Tag Export",
		"Time-window-grouped timed tags for timeline rendering.", "compact.schema.json")
	emit(r, &pipeline.Manifest{}, "Flatten Run Manifest",
		"Per-run record of which parsers ran, were skipped, or failed.", "manifest.schema.json")
}

func emit(r *jsonschema.Reflector, v interface{}, title, description, path string) {
	schema := r.Reflect(v)
	schema.Title = title
	schema.Description = description

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}
	log.Printf("Successfully generated schema at %s", path)
}
