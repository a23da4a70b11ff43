package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain paragraph",
			input: "Software engineer with five years of experience.",
			want:  "Software engineer with five years of experience.",
		},
		{
			name:  "heading and paragraph",
			input: "# Profile\n\nBackend developer in Casablanca.",
			want:  "Profile\n\nBackend developer in Casablanca.",
		},
		{
			name:  "emphasis stripped",
			input: "A **senior** engineer with *strong* Go skills.",
			want:  "A senior engineer with strong Go skills.",
		},
		{
			name:  "list items",
			input: "- Go\n- PostgreSQL\n- Kubernetes",
			want:  "Go\n\nPostgreSQL\n\nKubernetes",
		},
		{
			name:  "inline code",
			input: "Runs `go test` nightly.",
			want:  "Runs go test nightly.",
		},
		{
			name:  "fenced code block kept",
			input: "Setup:\n\n```\nmake install\n```",
			want:  "Setup:\n\nmake install",
		},
		{
			name:  "link text kept",
			input: "See [the report](https://example.com/report) for details.",
			want:  "See the report for details.",
		},
		{
			name:  "soft line break becomes space",
			input: "first line\nsecond line",
			want:  "first line second line",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractText([]byte(tt.input)))
		})
	}
}
