package salary

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/careerlens/careerlens/server/rag"
)

// Recommendation is one actionable advice entry in an analysis.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Trend is one market trend entry.
type Trend struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Step is one numbered negotiation step.
type Step struct {
	Number  int    `json:"numero"`
	Content string `json:"contenu"`
}

// DataQuality describes the provenance of the numbers in an analysis.
type DataQuality struct {
	Source         string `json:"source"`
	Unit           string `json:"unit"`
	SampleSize     int    `json:"sampleSize"`
	MarketAnalyzed string `json:"marketAnalyzed"`
}

// Neighbor is a close comparable observation shown with the analysis.
type Neighbor struct {
	Title           string  `json:"title"`
	Location        string  `json:"location"`
	Country         string  `json:"country"`
	Market          string  `json:"market"`
	ExperienceLevel string  `json:"experience_level"`
	SalaryMADMonth  int     `json:"salary_mad_month"`
	Score           float64 `json:"score"`
}

// Analysis is the full salary analysis response. Field names follow the
// client contract (French keys).
type Analysis struct {
	Median          float64          `json:"moyenne"`
	Gap             float64          `json:"ecart"`
	GapPercent      float64          `json:"ecart_pourcent"`
	Minimum         float64          `json:"minimum"`
	Maximum         float64          `json:"maximum"`
	Percentile      int              `json:"percentile"`
	Recommendations []Recommendation `json:"recommandations"`
	Trends          []Trend          `json:"tendances"`
	Steps           []Step           `json:"etapes"`
	DataQuality     DataQuality      `json:"dataQuality"`
	MarketUsed      string           `json:"marketUsed"`
}

// salaryPosition computes the claimed salary's clamped linear position in
// [min, max] as a 0-100 percentile.
func salaryPosition(claimed, min, max float64) int {
	span := max - min
	if span < 1 {
		span = 1
	}
	position := (claimed - min) / span * 100
	return int(math.Round(math.Min(100, math.Max(0, position))))
}

// analysisPrompt builds the narration prompt over real dataset statistics.
func analysisPrompt(jobTitle, location string, years int, claimed float64, stats rag.Stats, percentile int, market string, neighbors []Neighbor) string {
	neighborsJSON, err := json.Marshal(neighbors)
	if err != nil {
		neighborsJSON = []byte("[]")
	}

	var sb strings.Builder
	sb.WriteString("Tu es un expert RH international. Réponds uniquement en JSON valide (pas de texte hors JSON).\n\n")
	sb.WriteString("CONTEXTE MARCHÉ:\n")
	fmt.Fprintf(&sb, "- Marché dominant analysé: %s\n", market)
	sb.WriteString("- Unité: MAD/mois\n")
	fmt.Fprintf(&sb, "- Échantillon dataset: N=%d, min=%d, p25=%d, médiane=%d, p75=%d, max=%d\n",
		stats.Count, int(stats.Min), int(stats.P25), int(stats.Median), int(stats.P75), int(stats.Max))
	fmt.Fprintf(&sb, "- Voisins proches: %s\n\n", neighborsJSON)
	sb.WriteString("CANDIDAT:\n")
	fmt.Fprintf(&sb, "- Poste: %s\n", jobTitle)
	fmt.Fprintf(&sb, "- Lieu: %s\n", location)
	fmt.Fprintf(&sb, "- Expérience: %d ans\n", years)
	fmt.Fprintf(&sb, "- Salaire actuel: %d MAD/mois\n", int(claimed))
	fmt.Fprintf(&sb, "- Positionnement: %de percentile\n\n", percentile)
	sb.WriteString(`Rends exactement ce JSON:
{
  "moyenne": <médiane MAD/mois>,
  "ecart": <moyenne - salaire actuel>,
  "ecart_pourcent": <écart en pourcentage>,
  "minimum": <p25>,
  "maximum": <p75>,
  "percentile": <position 0-100>,
  "recommandations": [{"title": "...", "description": "...", "priority": "high|medium|low"}],
  "tendances": [{"title": "...", "detail": "..."}],
  "etapes": [{"numero": 1, "contenu": "..."}],
  "dataQuality": {"source": "salary_dataset", "unit": "MAD/mois", "sampleSize": ` + fmt.Sprintf("%d", stats.Count) + `, "marketAnalyzed": "` + market + `"},
  "marketUsed": "` + market + `"
}`)
	return sb.String()
}

// llmOnlyPrompt builds the analysis prompt used when the dataset is too
// small to back the numbers.
func llmOnlyPrompt(jobTitle, location string, years int, claimed float64, market string) string {
	var sb strings.Builder
	sb.WriteString("Tu es un expert RH international. Analyse ce profil salarial en te basant sur tes connaissances du marché.\n\n")
	sb.WriteString("PROFIL:\n")
	fmt.Fprintf(&sb, "- Poste: %s\n", jobTitle)
	fmt.Fprintf(&sb, "- Localisation: %s\n", location)
	fmt.Fprintf(&sb, "- Expérience: %d ans\n", years)
	fmt.Fprintf(&sb, "- Salaire actuel: %d MAD/mois\n", int(claimed))
	fmt.Fprintf(&sb, "- Marché identifié: %s\n\n", market)
	sb.WriteString("IMPORTANT: Aucune donnée suffisante dans notre dataset. Base-toi sur tes connaissances du marché réel.\n\n")
	sb.WriteString(`Réponds exactement en JSON:
{
  "moyenne": <salaire médian estimé>,
  "ecart": <moyenne - salaire actuel>,
  "ecart_pourcent": <pourcentage d'écart>,
  "minimum": <salaire minimum réaliste>,
  "maximum": <salaire maximum réaliste>,
  "percentile": <position estimée 0-100>,
  "recommandations": [{"title": "...", "description": "...", "priority": "medium"}],
  "tendances": [{"title": "...", "detail": "..."}],
  "etapes": [{"numero": 1, "contenu": "..."}],
  "dataQuality": {"source": "LLM estimation", "unit": "MAD/mois", "sampleSize": 0, "marketAnalyzed": "` + market + `"},
  "marketUsed": "` + market + `"
}`)
	return sb.String()
}

// statsFallback builds the fixed analysis used when narration fails but
// real statistics exist.
func statsFallback(claimed float64, stats rag.Stats, percentile int, market string) *Analysis {
	base := claimed
	if base < 1 {
		base = 1
	}
	return &Analysis{
		Median:     stats.Median,
		Gap:        stats.Median - claimed,
		GapPercent: math.Round((stats.Median-base)/base*1000) / 10,
		Minimum:    stats.P25,
		Maximum:    stats.P75,
		Percentile: percentile,
		Recommendations: []Recommendation{{
			Title:       "Analyse " + market,
			Description: fmt.Sprintf("Positionnement estimé au %de percentile sur le %s.", percentile, market),
			Priority:    "medium",
		}},
		Trends: []Trend{{
			Title:  "Tendance " + market,
			Detail: fmt.Sprintf("Médiane estimée: %d MAD/mois sur le %s.", int(stats.Median), market),
		}},
		Steps: []Step{
			{Number: 1, Content: fmt.Sprintf("Analyser le contexte du %s.", market)},
			{Number: 2, Content: "Comparer avec les médianes du marché."},
			{Number: 3, Content: "Préparer une négociation basée sur les données."},
		},
		DataQuality: DataQuality{
			Source:         "salary_dataset",
			Unit:           "MAD/mois",
			SampleSize:     stats.Count,
			MarketAnalyzed: market,
		},
		MarketUsed: market,
	}
}

// minimalFallback builds the fixed analysis used when neither dataset
// statistics nor narration are available.
func minimalFallback(claimed float64, market string) *Analysis {
	return &Analysis{
		Median:     claimed,
		Gap:        0,
		GapPercent: 0,
		Minimum:    math.Floor(claimed * 0.8),
		Maximum:    math.Floor(claimed * 1.2),
		Percentile: 50,
		Recommendations: []Recommendation{{
			Title:       "Données insuffisantes",
			Description: "Pas assez de données pour une analyse précise",
			Priority:    "low",
		}},
		Trends: []Trend{{
			Title:  "Analyse limitée",
			Detail: "Données insuffisantes dans le dataset",
		}},
		Steps: []Step{{Number: 1, Content: "Collecter plus de données de marché"}},
		DataQuality: DataQuality{
			Source:         "fallback",
			Unit:           "MAD/mois",
			SampleSize:     0,
			MarketAnalyzed: market,
		},
		MarketUsed: market,
	}
}
