package coaching

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/careerlens/careerlens/plugin/ai"
	"github.com/careerlens/careerlens/store"
)

const (
	insightSearchK   = 10
	similarProfileN  = 5
	topCountedN      = 10
	summaryClipRunes = 200
)

// ProfileSummary is the trimmed profile shape embedded in insights.
type ProfileSummary struct {
	FullName        string   `json:"name"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	ExperienceYears int      `json:"experience_years"`
	Summary         string   `json:"summary"`
	Skills          []string `json:"skills"`
	Score           float64  `json:"score"`
}

// Counted is a label with its occurrence count among matched profiles.
type Counted struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Insights aggregates what similar professionals look like. Key names follow
// the client contract (French keys).
type Insights struct {
	SimilarProfiles []ProfileSummary `json:"profiles_similaires"`
	PopularSkills   []Counted        `json:"competences_populaires"`
	TargetCompanies []Counted        `json:"entreprises_cibles"`
	CareerPaths     []string         `json:"parcours_types"`
	Locations       []Counted        `json:"localisations"`
	Narrative       string           `json:"narrative,omitempty"`
	MatchedProfiles int              `json:"total_profiles"`
}

// InsightsRequest describes the career goal to analyze.
type InsightsRequest struct {
	Goal   string   `json:"goal"`
	Skills []string `json:"skills"`
	Sector string   `json:"sector"`
}

// CareerInsights searches profiles similar to the stated goal and extracts
// what they have in common. The narrative is best-effort: a generation
// failure degrades to data-only insights.
func (s *Service) CareerInsights(ctx context.Context, req *InsightsRequest) (*Insights, error) {
	query := strings.TrimSpace(req.Goal + " " + req.Sector + " " + strings.Join(req.Skills, " "))
	matches, err := s.SearchProfiles(ctx, query, insightSearchK)
	if err != nil {
		return nil, err
	}

	insights := &Insights{
		SimilarProfiles: summarize(matches, similarProfileN),
		PopularSkills:   popularSkills(matches),
		TargetCompanies: countField(matches, func(p *store.CandidateProfile) string { return p.Company }),
		CareerPaths:     careerPaths(matches),
		Locations:       countField(matches, func(p *store.CandidateProfile) string { return p.Location }),
		MatchedProfiles: len(matches),
	}

	if s.generator != nil && len(matches) > 0 {
		insights.Narrative = s.narrate(ctx, req, insights)
	}
	return insights, nil
}

func summarize(matches []*ProfileMatch, n int) []ProfileSummary {
	out := make([]ProfileSummary, 0, n)
	for _, m := range matches {
		if len(out) == n {
			break
		}
		summary := m.Profile.Summary
		if runes := []rune(summary); len(runes) > summaryClipRunes {
			summary = string(runes[:summaryClipRunes]) + "..."
		}
		skills := m.Profile.Skills
		if len(skills) > topCountedN {
			skills = skills[:topCountedN]
		}
		out = append(out, ProfileSummary{
			FullName:        m.Profile.FullName,
			Title:           m.Profile.Title,
			Company:         m.Profile.Company,
			Location:        m.Profile.Location,
			ExperienceYears: int(m.Profile.ExperienceYears),
			Summary:         summary,
			Skills:          skills,
			Score:           float64(m.Score),
		})
	}
	return out
}

func popularSkills(matches []*ProfileMatch) []Counted {
	counts := map[string]int{}
	var order []string
	for _, m := range matches {
		for _, skill := range m.Profile.Skills {
			if counts[skill] == 0 {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}
	return topCounted(counts, order)
}

func countField(matches []*ProfileMatch, field func(*store.CandidateProfile) string) []Counted {
	counts := map[string]int{}
	var order []string
	for _, m := range matches {
		v := strings.TrimSpace(field(m.Profile))
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	return topCounted(counts, order)
}

// topCounted sorts labels by descending count, ties broken by first-seen
// order, and keeps the top entries.
func topCounted(counts map[string]int, order []string) []Counted {
	rank := make(map[string]int, len(order))
	for i, label := range order {
		rank[label] = i
	}
	out := make([]Counted, 0, len(order))
	for _, label := range order {
		out = append(out, Counted{Label: label, Count: counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return rank[out[i].Label] < rank[out[j].Label]
	})
	if len(out) > topCountedN {
		out = out[:topCountedN]
	}
	return out
}

// careerPaths lists distinct titles among matches, ranking preserved.
func careerPaths(matches []*ProfileMatch) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range matches {
		title := strings.TrimSpace(m.Profile.Title)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		out = append(out, title)
		if len(out) == topCountedN {
			break
		}
	}
	return out
}

func (s *Service) narrate(ctx context.Context, req *InsightsRequest, insights *Insights) string {
	var sb strings.Builder
	sb.WriteString("Tu es un coach de carrière. En te basant sur les profils similaires ci-dessous, rédige un court paragraphe de conseils (en français, 4 phrases maximum) pour ce candidat.\n\n")
	sb.WriteString("Objectif: " + req.Goal + "\n")
	if req.Sector != "" {
		sb.WriteString("Secteur: " + req.Sector + "\n")
	}
	if len(req.Skills) > 0 {
		sb.WriteString("Compétences: " + strings.Join(req.Skills, ", ") + "\n")
	}
	sb.WriteString("\nTitres fréquents: " + strings.Join(insights.CareerPaths, "; ") + "\n")
	for _, c := range insights.PopularSkills {
		sb.WriteString("- compétence recherchée: " + c.Label + "\n")
	}

	output, err := s.generator.Generate(ctx, []ai.Message{ai.UserMessage(sb.String())})
	if err != nil {
		slog.Warn("career insights narration failed", "error", err)
		return ""
	}
	return strings.TrimSpace(output)
}
