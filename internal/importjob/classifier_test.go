package importjob

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func block(text string) Block {
	lines, _ := ReadLines(strings.NewReader(text))
	return Block{Lines: lines, StartLine: 1}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Classification
	}{
		{
			name: "common config",
			text: "#\n# Some common values used in the default import job\n#\nx = 1\n",
			want: Classification{Kind: KindCommonConfig},
		},
		{
			name: "default import job",
			text: "#\n# Default import job - main config\n#\njob = 1\n",
			want: Classification{Kind: KindDefaultImportJob},
		},
		{
			name: "default rules",
			text: "#\n# Default import job - generic tag/URL rules\n#\n",
			want: Classification{Kind: KindDefaultRules},
		},
		{
			name: "header text may carry a suffix",
			text: "#\n# Default import job - main config (edit with care)\n",
			want: Classification{Kind: KindDefaultImportJob},
		},
		{
			name: "service rules are normalized",
			text: "#\n# Rules for Sankaku IdolComplex   \n#\n",
			want: Classification{Kind: KindServiceRules, Label: "sankaku idolcomplex"},
		},
		{
			name: "crlf line endings",
			text: "#\r\n# Rules for Pixiv\r\n#\r\n",
			want: Classification{Kind: KindServiceRules, Label: "pixiv"},
		},
		{
			name: "empty rules header is skipped",
			text: "#\n# Rules for \n# Rules for nijie.info\n",
			want: Classification{Kind: KindServiceRules, Label: "nijie.info"},
		},
		{
			name: "whitespace-only label is kept empty",
			text: "#\n# Rules for    \n#\nbody\n",
			want: Classification{Kind: KindServiceRules, Label: ""},
		},
		{
			name: "rules prefix requires the marker at line start",
			text: "x = 1\n  # Rules for pixiv\n",
			want: Classification{Kind: KindUnknown},
		},
		{
			name: "first matching line wins",
			text: "#\n# Rules for pixiv\n# Default import job - main config\n",
			want: Classification{Kind: KindServiceRules, Label: "pixiv"},
		},
		{
			name: "leading blank lines do not count",
			text: "\n\n\n\n\n\n\n\n\n\n\n\n#\n# Rules for imgur\n",
			want: Classification{Kind: KindServiceRules, Label: "imgur"},
		},
		{
			name: "header past the tenth line is ignored",
			text: strings.Repeat("x\n", 10) + "# Rules for imgur\n",
			want: Classification{Kind: KindUnknown},
		},
		{
			name: "header on the tenth line counts",
			text: strings.Repeat("x\n", 9) + "# Some common values used in the default import job\n",
			want: Classification{Kind: KindCommonConfig},
		},
		{
			name: "trailing whitespace of the block is trimmed first",
			text: "#\n# Rules for    \n",
			want: Classification{Kind: KindUnknown},
		},
		{
			name: "body only",
			text: "import os\nprint('hi')\n",
			want: Classification{Kind: KindUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(block(tt.text)))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	b := block("#\n# Rules for DeviantArt\n#\nbody\n")
	first := Classify(b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(b))
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "commonConfig", KindCommonConfig.String())
	assert.Equal(t, "defaultImportJob", KindDefaultImportJob.String())
	assert.Equal(t, "defaultRules", KindDefaultRules.String())
	assert.Equal(t, "rules", KindServiceRules.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
