package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple sentences",
			input: "First sentence. Second sentence! Third sentence?",
			want:  []string{"First sentence.", "Second sentence!", "Third sentence?"},
		},
		{
			name:  "abbreviation does not split",
			input: "M. Dupont est ingénieur. Il travaille à Rabat.",
			want:  []string{"M. Dupont est ingénieur.", "Il travaille à Rabat."},
		},
		{
			name:  "etc mid-sentence",
			input: "Compétences Go, SQL, etc. sont requises. Postulez vite.",
			want:  []string{"Compétences Go, SQL, etc. sont requises.", "Postulez vite."},
		},
		{
			name:  "trailing text without terminator",
			input: "Complete sentence. trailing fragment",
			want:  []string{"Complete sentence.", "trailing fragment"},
		},
		{
			name:  "whitespace normalized",
			input: "  Lots   of \n\t spaces.  ",
			want:  []string{"Lots of spaces."},
		},
		{
			name:  "empty input",
			input: "   ",
			want:  nil,
		},
		{
			name:  "decimal point not followed by space",
			input: "The budget is 3.5 million. Approved.",
			want:  []string{"The budget is 3.5 million.", "Approved."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SplitSentences(tt.input))
		})
	}
}

func TestChunkTextEmpty(t *testing.T) {
	require.Nil(t, ChunkText("", 100, 20))
	require.Nil(t, ChunkText("   \n ", 100, 20))
}

func TestChunkTextSingleSegment(t *testing.T) {
	text := "Short text that fits. Entirely within one segment."
	segments := ChunkText(text, 1200, 200)
	require.Len(t, segments, 1)
	require.Equal(t, "Short text that fits. Entirely within one segment.", segments[0])
}

func TestChunkTextCoverage(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("Sentence number with some padding words inside it. ")
	}
	sentences := SplitSentences(sb.String())
	segments := ChunkText(sb.String(), 200, 40)
	require.Greater(t, len(segments), 1)

	// Every sentence appears in order across the segments.
	joined := strings.Join(segments, " ")
	for _, s := range sentences {
		require.Contains(t, joined, s)
	}
}

func TestChunkTextMaxChars(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("A short sentence here. ")
	}
	for _, segment := range ChunkText(sb.String(), 120, 0) {
		require.LessOrEqual(t, len([]rune(segment)), 120)
	}
}

func TestChunkTextOverlap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("A short sentence here. ")
	}
	segments := ChunkText(sb.String(), 120, 30)
	require.Greater(t, len(segments), 1)

	for i := 0; i < len(segments)-1; i++ {
		prev := []rune(segments[i])
		overlap := prev
		if len(prev) > 30 {
			overlap = prev[len(prev)-30:]
		}
		require.True(t, strings.HasPrefix(segments[i+1], string(overlap)),
			"segment %d does not start with the previous segment's overlap", i+1)
	}
}

func TestChunkTextSeededSegmentsRespectMaxChars(t *testing.T) {
	// Three 80-rune sentences with maxChars 100 and a 50-rune overlap: the
	// seed alone would push seeded segments past the budget.
	sentence := strings.Repeat("x", 79) + "."
	text := sentence + " " + sentence + " " + sentence
	segments := ChunkText(text, 100, 50)
	require.Greater(t, len(segments), 1)

	for i, segment := range segments {
		require.LessOrEqual(t, len([]rune(segment)), 100, "segment %d", i)
	}

	// The trimmed seed still carries trailing context across the boundary.
	prev := []rune(segments[0])
	require.True(t, strings.HasPrefix(segments[1], string(prev[len(prev)-19:])))
}

func TestChunkTextHardSplit(t *testing.T) {
	long := strings.Repeat("x", 500)
	segments := ChunkText(long, 100, 0)
	require.Len(t, segments, 5)
	for _, segment := range segments {
		require.LessOrEqual(t, len([]rune(segment)), 100)
	}
	require.Equal(t, long, strings.Join(segments, ""))
}

func TestChunkTextDeterministic(t *testing.T) {
	text := "One sentence. Two sentences. Three sentences. Four sentences. Five."
	first := ChunkText(text, 40, 10)
	second := ChunkText(text, 40, 10)
	require.Equal(t, first, second)
}
