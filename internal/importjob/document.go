package importjob

import (
	"importjob/internal/logging"
)

// Document is the generated importJob.json content. Section fields hold the
// verbatim block text, header comments and trailing newlines included.
type Document struct {
	SourceHash       string            `json:"sourceHash"`
	CommonConfig     string            `json:"commonConfig,omitempty"`
	DefaultImportJob string            `json:"defaultImportJob,omitempty"`
	DefaultRules     string            `json:"defaultRules,omitempty"`
	Rules            map[string]string `json:"rules,omitempty"`
}

// Aggregate classifies every block and folds it into a Document.
//
// The first unknown service label or unclassifiable block aborts with an
// error and no document. Repeated fixed sections and repeated service keys
// are last-write-wins; the upstream script has never contained duplicates,
// so this is an assumption and is logged when it happens.
func Aggregate(sourceHash string, blocks []Block) (*Document, error) {
	timer := logging.StartTimer(logging.CategoryClassifier, "aggregate")
	defer timer.Stop()

	doc := &Document{SourceHash: sourceHash}
	rules := make(map[string]string)

	set := func(field *string, kind Kind, b Block) {
		if *field != "" {
			logging.Get(logging.CategoryClassifier).Warnf(
				"Duplicate %s section at line %d replaces the earlier one", kind, b.StartLine)
		}
		*field = b.Text()
	}

	for _, b := range blocks {
		c := Classify(b)
		logging.ClassifierDebug("Block at line %d classified as %s %s", b.StartLine, c.Kind, c.Label)

		switch c.Kind {
		case KindCommonConfig:
			set(&doc.CommonConfig, c.Kind, b)
		case KindDefaultImportJob:
			set(&doc.DefaultImportJob, c.Kind, b)
		case KindDefaultRules:
			set(&doc.DefaultRules, c.Kind, b)
		case KindServiceRules:
			key, ok := LookupService(c.Label)
			if !ok {
				logging.ClassifierError("Unknown service name %q at line %d", c.Label, b.StartLine)
				return nil, &UnknownServiceError{Label: c.Label, StartLine: b.StartLine}
			}
			if _, dup := rules[key]; dup {
				logging.Get(logging.CategoryClassifier).Warnf(
					"Duplicate rules for %s at line %d replace the earlier ones", key, b.StartLine)
			}
			rules[key] = b.Text()
		default:
			logging.ClassifierError("Unclassified block at line %d", b.StartLine)
			return nil, &UnclassifiedSectionError{Preview: preview(b.Text()), StartLine: b.StartLine}
		}
	}

	if len(rules) > 0 {
		doc.Rules = rules
	}

	logging.Classifier("Aggregated %d blocks (%d service rule sets)", len(blocks), len(rules))
	return doc, nil
}

// Analysis describes one block for reporting without failing fast.
type Analysis struct {
	Block          Block
	Classification Classification
	// Key is the canonical service key for resolvable service rules.
	Key string
	// Err is set for blocks that would make Aggregate fail.
	Err error
}

// Analyze classifies every block and collects per-block problems.
func Analyze(blocks []Block) []Analysis {
	out := make([]Analysis, 0, len(blocks))
	for _, b := range blocks {
		a := Analysis{Block: b, Classification: Classify(b)}
		switch a.Classification.Kind {
		case KindServiceRules:
			if key, ok := LookupService(a.Classification.Label); ok {
				a.Key = key
			} else {
				a.Err = &UnknownServiceError{Label: a.Classification.Label, StartLine: b.StartLine}
			}
		case KindUnknown:
			a.Err = &UnclassifiedSectionError{Preview: preview(b.Text()), StartLine: b.StartLine}
		}
		out = append(out, a)
	}
	return out
}
