package importjob

import (
	"strings"
)

// Kind is the semantic category of a block.
type Kind int

const (
	KindUnknown Kind = iota
	KindCommonConfig
	KindDefaultImportJob
	KindDefaultRules
	KindServiceRules
)

func (k Kind) String() string {
	switch k {
	case KindCommonConfig:
		return "commonConfig"
	case KindDefaultImportJob:
		return "defaultImportJob"
	case KindDefaultRules:
		return "defaultRules"
	case KindServiceRules:
		return "rules"
	default:
		return "unknown"
	}
}

// Header texts that identify the fixed sections.
const (
	commonConfigHeader     = "# Some common values used in the default import job"
	defaultImportJobHeader = "# Default import job - main config"
	defaultRulesHeader     = "# Default import job - generic tag/URL rules"
	serviceRulesPrefix     = "# Rules for "
)

// classifyLineLimit bounds how far into a block the header is searched for.
const classifyLineLimit = 10

// Classification is the result of inspecting a block's header.
type Classification struct {
	Kind Kind
	// Label is the normalized service label for KindServiceRules.
	Label string
}

// Classify inspects the first lines of a block and decides its kind.
// The first line that matches any header wins.
func Classify(b Block) Classification {
	for _, line := range headLines(b.Text(), classifyLineLimit) {
		switch {
		case strings.Contains(line, commonConfigHeader):
			return Classification{Kind: KindCommonConfig}
		case strings.Contains(line, defaultImportJobHeader):
			return Classification{Kind: KindDefaultImportJob}
		case strings.Contains(line, defaultRulesHeader):
			return Classification{Kind: KindDefaultRules}
		}
		if label, ok := serviceLabel(line); ok {
			return Classification{Kind: KindServiceRules, Label: label}
		}
	}
	return Classification{Kind: KindUnknown}
}

// headLines returns up to n lines of the whitespace-trimmed text, without
// terminators or carriage returns.
func headLines(text string, n int) []string {
	lines := strings.SplitN(strings.TrimSpace(text), "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// serviceLabel extracts the label from a "# Rules for <label>" line. The raw
// remainder must be non-empty; the returned label is trimmed and lower-cased.
func serviceLabel(line string) (string, bool) {
	if !strings.HasPrefix(line, serviceRulesPrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(line, serviceRulesPrefix)
	if rest == "" {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(rest)), true
}
