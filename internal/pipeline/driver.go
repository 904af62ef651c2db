// Package pipeline drives one asset's processing run: parser discovery,
// concurrent parsing, normalization, aggregation, and export.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/aggregate"
	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/normalize"
	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/parsers"
	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/timedtag"
)

// State names the driver's position in a run.
type State string

const (
	StateDiscover  State = "DISCOVER"
	StateParse     State = "PARSE"
	StateNormalize State = "NORMALIZE"
	StateAggregate State = "AGGREGATE"
	StateExport    State = "EXPORT"
	StateDone      State = "DONE"
	StateFailed    State = "FAILED"
)

// Options configure a Driver.
type Options struct {
	// CoalesceGapSec is the compact-export window merge gap in seconds.
	// Zero merges only true overlaps.
	CoalesceGapSec float64
	// Workers bounds concurrent parser invocations; <= 0 means NumCPU.
	Workers int
	// DisabledParsers lists extractor names to skip even when their result
	// keys are present.
	DisabledParsers []string
	// Export file names, relative to the run's output directory.
	FlatName     string
	CompactName  string
	ManifestName string
	// Registry overrides the parser set; nil means every registered parser.
	Registry []parsers.Parser
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.FlatName == "" {
		o.FlatName = "flat.csv"
	}
	if o.CompactName == "" {
		o.CompactName = "compact.json"
	}
	if o.ManifestName == "" {
		o.ManifestName = "manifest.json"
	}
	return o
}

// Driver executes asset runs. It holds no per-run state, so one Driver may
// serve many concurrent assets.
type Driver struct {
	opts Options
	log  *logrus.Entry
}

// NewDriver creates a driver with the given options.
func NewDriver(opts Options) *Driver {
	return &Driver{
		opts: opts.withDefaults(),
		log:  logrus.WithField("component", "pipeline"),
	}
}

// Run processes one asset: raw holds the available result payloads keyed by
// result key, outDir receives the export artifacts. On success the state is
// DONE and the returned manifest describes what ran; on failure no export
// artifact is published and the returned state is FAILED.
//
// A SchemaMismatchError from one parser is downgraded to a manifest failure
// note so a single bad vendor payload cannot block the others. Any error
// from normalization onward is fatal.
func (d *Driver) Run(ctx context.Context, assetID string, raw map[string]json.RawMessage, outDir string) (*Manifest, State, error) {
	log := d.log.WithField("asset_id", assetID)
	manifest := NewManifest(assetID)

	// DISCOVER
	selected := d.discover(raw, manifest)
	log.WithFields(logrus.Fields{
		"selected": len(selected),
		"unparsed": len(manifest.UnparsedKeys),
	}).Info("parser discovery complete")

	// PARSE
	outputs, err := d.parseAll(ctx, selected, raw, manifest)
	if err != nil {
		return nil, StateFailed, err
	}

	// NORMALIZE; errors here are structural and abort the run with the
	// offending parser in context.
	normalized := make([][]timedtag.TimedTag, 0, len(outputs))
	for _, po := range outputs {
		tags, err := normalize.Apply(po.tags)
		if err != nil {
			return nil, StateFailed, fmt.Errorf("asset %s: parser %s: %w", assetID, po.extractor, err)
		}
		normalized = append(normalized, tags)
	}

	// AGGREGATE
	result := aggregate.Aggregate(normalized...)
	manifest.TagCount = result.Len()

	// EXPORT
	if err := d.export(assetID, result, outDir, manifest); err != nil {
		return nil, StateFailed, err
	}

	log.WithField("tag_count", manifest.TagCount).Info("run complete")
	return manifest, StateDone, nil
}

// discover selects applicable parsers, records skipped parsers and result
// keys no parser covers.
func (d *Driver) discover(raw map[string]json.RawMessage, manifest *Manifest) []parsers.Parser {
	disabled := make(map[string]bool, len(d.opts.DisabledParsers))
	for _, name := range d.opts.DisabledParsers {
		disabled[name] = true
	}

	registry := d.opts.Registry
	if registry == nil {
		registry = parsers.All()
	}

	var selected []parsers.Parser
	for _, p := range parsers.ApplicableFrom(registry, raw) {
		if disabled[p.Extractor()] {
			manifest.ParsersSkipped = append(manifest.ParsersSkipped, p.Extractor())
			continue
		}
		selected = append(selected, p)
	}
	for _, p := range registry {
		if !containsParser(selected, p) && !disabled[p.Extractor()] {
			manifest.ParsersSkipped = append(manifest.ParsersSkipped, p.Extractor())
		}
	}
	sort.Strings(manifest.ParsersSkipped)

	covered := parsers.CoveredKeysFrom(registry)
	for key := range raw {
		if !covered[key] {
			manifest.UnparsedKeys = append(manifest.UnparsedKeys, key)
		}
	}
	sort.Strings(manifest.UnparsedKeys)
	return selected
}

type parserOutput struct {
	extractor string
	tags      []timedtag.TimedTag
}

// parseAll fans parser invocations out over a bounded worker pool and joins
// before returning. Results keep registry order regardless of completion
// order so downstream output stays deterministic.
func (d *Driver) parseAll(ctx context.Context, selected []parsers.Parser, raw map[string]json.RawMessage, manifest *Manifest) ([]parserOutput, error) {
	type slot struct {
		tags []timedtag.TimedTag
		err  error
	}
	slots := make([]slot, len(selected))

	var wg sync.WaitGroup
	sem := make(chan struct{}, d.opts.Workers)
	for i, p := range selected {
		wg.Add(1)
		go func(i int, p parsers.Parser) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				slots[i].err = ctx.Err()
				return
			}
			if ctx.Err() != nil {
				slots[i].err = ctx.Err()
				return
			}
			payloads := make(map[string]json.RawMessage, len(p.ResultKeys()))
			for _, k := range p.ResultKeys() {
				payloads[k] = raw[k]
			}
			slots[i].tags, slots[i].err = p.Parse(payloads)
		}(i, p)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	outputs := make([]parserOutput, 0, len(selected))
	for i, p := range selected {
		if err := slots[i].err; err != nil {
			var schemaErr *timedtag.SchemaMismatchError
			if errors.As(err, &schemaErr) {
				d.log.WithFields(logrus.Fields{
					"parser": p.Extractor(),
					"reason": schemaErr.Reason,
				}).Warn("parser payload mismatch, contribution dropped")
				manifest.ParsersFailed = append(manifest.ParsersFailed, ParserFailure{
					Name:   p.Extractor(),
					Reason: schemaErr.Reason,
				})
				continue
			}
			return nil, fmt.Errorf("parser %s: %w", p.Extractor(), err)
		}
		manifest.ParsersRun = append(manifest.ParsersRun, p.Extractor())
		outputs = append(outputs, parserOutput{extractor: p.Extractor(), tags: slots[i].tags})
	}
	return outputs, nil
}

// export writes the flat and compact artifacts plus the manifest. All three
// are staged as temp files first and renamed into place only after every
// write has succeeded, so a failed run publishes no artifact at all, not
// just no partial file.
func (d *Driver) export(assetID string, result aggregate.Result, outDir string, manifest *Manifest) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &timedtag.ExportWriteError{Path: outDir, Err: err}
	}

	compact := aggregate.Compact(result, d.opts.CoalesceGapSec)
	compact.AssetID = assetID

	artifacts := []struct {
		path  string
		write func(*os.File) error
	}{
		{filepath.Join(outDir, d.opts.FlatName), func(f *os.File) error {
			return aggregate.WriteFlat(f, result)
		}},
		{filepath.Join(outDir, d.opts.CompactName), func(f *os.File) error {
			return aggregate.WriteCompact(f, compact)
		}},
		{filepath.Join(outDir, d.opts.ManifestName), func(f *os.File) error {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			return enc.Encode(manifest)
		}},
	}

	staged := make([]string, 0, len(artifacts))
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}()
	for _, a := range artifacts {
		tmp, err := stageFile(a.path, a.write)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	var published []string
	for i, a := range artifacts {
		if err := os.Rename(staged[i], a.path); err != nil {
			// Roll back anything already published so DONE and FAILED
			// stay distinguishable by artifact presence.
			for _, p := range published {
				os.Remove(p)
			}
			return &timedtag.ExportWriteError{Path: a.path, Err: err}
		}
		published = append(published, a.path)
	}
	return nil
}

// stageFile writes one artifact to a temp file alongside its destination
// and returns the temp path. The caller owns the rename and cleanup.
func stageFile(path string, write func(*os.File) error) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", &timedtag.ExportWriteError{Path: path, Err: err}
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &timedtag.ExportWriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", &timedtag.ExportWriteError{Path: path, Err: err}
	}
	return tmp.Name(), nil
}

func containsParser(list []parsers.Parser, p parsers.Parser) bool {
	for _, candidate := range list {
		if candidate.Extractor() == p.Extractor() {
			return true
		}
	}
	return false
}
