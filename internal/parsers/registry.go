package parsers

import (
	"encoding/json"
	"sort"
)

// Registered parsers, one per supported extractor. Registration is static:
// the driver dispatches by declared extractor name and result keys, no
// runtime discovery.
var registry = []Parser{
	&AWSCelebritiesParser{},
	&AWSFacesParser{},
	&AWSLabelsParser{},
	&AWSModerationParser{},
	&AWSSegmentsParser{},
	&AWSTextDetectParser{},
	&AzureVideoIndexerParser{},
	&ActivityClassifierParser{},
	&GCPExplicitParser{},
	&GCPFaceDetectionParser{},
	&GCPLabelParser{},
	&GCPLogoParser{},
	&GCPObjectTrackingParser{},
	&GCPShotChangeParser{},
	&GCPSpeechParser{},
	&MusicGenreParser{},
	&SceneDetectParser{},
}

// All returns every registered parser sorted by extractor name. The order is
// stable so driver runs are deterministic.
func All() []Parser {
	out := make([]Parser, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Extractor() < out[j].Extractor() })
	return out
}

// ByExtractor returns the parser registered for the given extractor name.
func ByExtractor(name string) (Parser, bool) {
	for _, p := range registry {
		if p.Extractor() == name {
			return p, true
		}
	}
	return nil, false
}

// Applicable returns the registered parsers whose declared result keys are
// all present in the available key set, sorted by extractor name.
func Applicable(available map[string]json.RawMessage) []Parser {
	return ApplicableFrom(All(), available)
}

// ApplicableFrom filters an explicit parser list by result-key presence.
func ApplicableFrom(list []Parser, available map[string]json.RawMessage) []Parser {
	var out []Parser
	for _, p := range list {
		ok := true
		for _, k := range p.ResultKeys() {
			if _, present := available[k]; !present {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// CoveredKeys returns the union of result keys declared by all registered
// parsers. The driver uses it to report available keys no parser handles.
func CoveredKeys() map[string]bool {
	return CoveredKeysFrom(All())
}

// CoveredKeysFrom returns the union of result keys declared by an explicit
// parser list.
func CoveredKeysFrom(list []Parser) map[string]bool {
	out := make(map[string]bool)
	for _, p := range list {
		for _, k := range p.ResultKeys() {
			out[k] = true
		}
	}
	return out
}
