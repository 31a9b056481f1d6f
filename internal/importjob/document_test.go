package importjob

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	commonSection = "#\n# Some common values used in the default import job\n#\n\nx = 1\n"
	pixivSection  = "#\n# Rules for pixiv\n#\n\nj.add_rule(1)\n"
)

func TestAggregate_Minimal(t *testing.T) {
	blocks := Split(mustLines(t, commonSection+pixivSection))

	doc, err := Aggregate("sha256-abc", blocks)
	require.NoError(t, err)

	want := &Document{
		SourceHash:   "sha256-abc",
		CommonConfig: commonSection,
		Rules:        map[string]string{"pixiv": pixivSection},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("Aggregate mismatch (-want +got):\n%s", diff)
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Len(t, keys, 3)
	assert.Contains(t, keys, "sourceHash")
	assert.Contains(t, keys, "commonConfig")
	assert.Contains(t, keys, "rules")
}

func TestAggregate_AllServices(t *testing.T) {
	var sb strings.Builder
	for _, label := range ServiceLabels() {
		sb.WriteString("#\n# Rules for " + label + "\n#\nbody\n")
	}

	doc, err := Aggregate("h", Split(mustLines(t, sb.String())))
	require.NoError(t, err)
	require.Len(t, doc.Rules, len(ServiceLabels()))

	for _, label := range ServiceLabels() {
		key, _ := LookupService(label)
		assert.Equal(t, "#\n# Rules for "+label+"\n#\nbody\n", doc.Rules[key], label)
	}
}

func TestAggregate_UnknownService(t *testing.T) {
	blocks := Split(mustLines(t, commonSection+"#\n# Rules for totallyUnknownService\n#\nx\n"))

	doc, err := Aggregate("h", blocks)
	assert.Nil(t, doc)

	var unknown *UnknownServiceError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "totallyunknownservice", unknown.Label)
	assert.Equal(t, 6, unknown.StartLine)
}

func TestAggregate_Unclassified(t *testing.T) {
	body := strings.Repeat("print('x')\n", 40)

	doc, err := Aggregate("h", Split(mustLines(t, body)))
	assert.Nil(t, doc)

	var unclassified *UnclassifiedSectionError
	require.True(t, errors.As(err, &unclassified))
	assert.Equal(t, 1, unclassified.StartLine)
	assert.True(t, strings.HasSuffix(unclassified.Preview, "..."))
	assert.Equal(t, body[:200]+"...", unclassified.Preview)
}

func TestAggregate_DuplicatesLastWins(t *testing.T) {
	first := "#\n# Rules for pixiv\n#\nfirst\n"
	second := "#\n# Rules for Pixiv\n#\nsecond\n"
	common2 := "#\n# Some common values used in the default import job\n#\nsecond\n"

	doc, err := Aggregate("h", Split(mustLines(t, commonSection+first+second+common2)))
	require.NoError(t, err)
	assert.Equal(t, second, doc.Rules["pixiv"])
	assert.Equal(t, common2, doc.CommonConfig)
}

func TestAggregate_NoRulesOmitted(t *testing.T) {
	doc, err := Aggregate("h", Split(mustLines(t, commonSection)))
	require.NoError(t, err)
	assert.Nil(t, doc.Rules)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "rules")
	assert.NotContains(t, string(data), "defaultImportJob")
}

func TestAggregate_Empty(t *testing.T) {
	doc, err := Aggregate("h", nil)
	require.NoError(t, err)
	assert.Equal(t, &Document{SourceHash: "h"}, doc)
}

func TestAnalyze(t *testing.T) {
	input := "preamble\n" + commonSection + "#\n# Rules for nowhere\n#\nx\n" + pixivSection
	results := Analyze(Split(mustLines(t, input)))
	require.Len(t, results, 4)

	assert.Equal(t, KindUnknown, results[0].Classification.Kind)
	var unclassified *UnclassifiedSectionError
	assert.True(t, errors.As(results[0].Err, &unclassified))

	assert.Equal(t, KindCommonConfig, results[1].Classification.Kind)
	assert.NoError(t, results[1].Err)

	var unknown *UnknownServiceError
	assert.True(t, errors.As(results[2].Err, &unknown))
	assert.Equal(t, "nowhere", unknown.Label)

	assert.Equal(t, "pixiv", results[3].Key)
	assert.NoError(t, results[3].Err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short...", preview("short"))
	long := strings.Repeat("é", 250)
	assert.Equal(t, strings.Repeat("é", 200)+"...", preview(long))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "file /x/y.py not found", (&MissingInputFileError{Path: "/x/y.py"}).Error())
	assert.Equal(t, "unknown service name 'foo' (block at line 3)",
		(&UnknownServiceError{Label: "foo", StartLine: 3}).Error())
	assert.Equal(t, "found unknown section at line 7",
		(&UnclassifiedSectionError{StartLine: 7}).Error())
}
