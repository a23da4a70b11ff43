package coaching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/careerlens/careerlens/store"
)

func match(title, company, location string, skills ...string) *ProfileMatch {
	return &ProfileMatch{
		Profile: &store.CandidateProfile{
			FullName: "Someone",
			Title:    title,
			Company:  company,
			Location: location,
			Skills:   skills,
		},
		Score: 0.9,
	}
}

func TestPopularSkills(t *testing.T) {
	matches := []*ProfileMatch{
		match("Data Engineer", "Acme", "Casablanca", "Python", "SQL"),
		match("Data Engineer", "Globex", "Rabat", "Python", "Spark"),
		match("Analyst", "Acme", "Casablanca", "SQL", "Python"),
	}

	skills := popularSkills(matches)
	require.Equal(t, Counted{Label: "Python", Count: 3}, skills[0])
	require.Equal(t, Counted{Label: "SQL", Count: 2}, skills[1])
	require.Equal(t, Counted{Label: "Spark", Count: 1}, skills[2])
}

func TestCountFieldTieBreaksByFirstSeen(t *testing.T) {
	matches := []*ProfileMatch{
		match("A", "Globex", "Rabat"),
		match("B", "Acme", "Casablanca"),
		match("C", "Acme", "Rabat"),
		match("D", "Globex", ""),
	}

	companies := countField(matches, func(p *store.CandidateProfile) string { return p.Company })
	require.Equal(t, []Counted{{Label: "Globex", Count: 2}, {Label: "Acme", Count: 2}}, companies)

	locations := countField(matches, func(p *store.CandidateProfile) string { return p.Location })
	require.Equal(t, []Counted{{Label: "Rabat", Count: 2}, {Label: "Casablanca", Count: 1}}, locations)
}

func TestCareerPathsDistinctInRankOrder(t *testing.T) {
	matches := []*ProfileMatch{
		match("Data Engineer", "", ""),
		match("Data Scientist", "", ""),
		match("Data Engineer", "", ""),
		match("  ", "", ""),
	}
	require.Equal(t, []string{"Data Engineer", "Data Scientist"}, careerPaths(matches))
}

func TestSummarizeClipsLongSummaries(t *testing.T) {
	long := strings.Repeat("a", 300)
	m := match("Data Engineer", "Acme", "Casablanca", "Python")
	m.Profile.Summary = long

	out := summarize([]*ProfileMatch{m}, 5)
	require.Len(t, out, 1)
	require.Len(t, []rune(out[0].Summary), summaryClipRunes+3)
	require.True(t, strings.HasSuffix(out[0].Summary, "..."))
}

func TestSummarizeCapsCount(t *testing.T) {
	matches := make([]*ProfileMatch, 8)
	for i := range matches {
		matches[i] = match("Data Engineer", "Acme", "Casablanca")
	}
	require.Len(t, summarize(matches, similarProfileN), similarProfileN)
}
