package importjob

import "fmt"

// previewLimit is how many characters of an unclassified block are reported.
const previewLimit = 200

// MissingInputFileError reports that the resolved source path does not exist.
type MissingInputFileError struct {
	Path string
}

func (e *MissingInputFileError) Error() string {
	return fmt.Sprintf("file %s not found", e.Path)
}

// UnknownServiceError reports a "Rules for" header whose label has no canonical key.
type UnknownServiceError struct {
	Label string
	// StartLine locates the offending block in the source.
	StartLine int
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("unknown service name '%s' (block at line %d)", e.Label, e.StartLine)
}

// UnclassifiedSectionError reports a block whose header matched no known pattern.
type UnclassifiedSectionError struct {
	Preview   string
	StartLine int
}

func (e *UnclassifiedSectionError) Error() string {
	return fmt.Sprintf("found unknown section at line %d", e.StartLine)
}

// preview returns the first previewLimit characters of text followed by "...".
func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLimit {
		runes = runes[:previewLimit]
	}
	return string(runes) + "..."
}
