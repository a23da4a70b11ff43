package salary

import (
	"context"
	"log/slog"
	"sort"

	"github.com/careerlens/careerlens/server/rag"
	"github.com/careerlens/careerlens/store"
)

// Comparable-sample thresholds: two matches are enough to estimate at all,
// twelve make the tier estimate tight enough to stop widening the search.
const (
	minComparable    = 2
	enoughComparable = 12
)

// Margins applied to the matched distribution: the estimate widens the
// interquartile range slightly; the plausibility band loosens the 10th/90th
// percentiles multiplicatively.
const (
	estimateLowMargin   = 0.9
	estimateHighMargin  = 1.1
	plausibleLowSlack   = 0.6
	plausibleHighSlack  = 1.4
)

// Verdict is the outcome of evaluating one submitted observation.
type Verdict struct {
	EstimatedMin float64
	EstimatedMax float64
	Status       store.SalaryObservationStatus
	SampleSize   int // comparable observations backing the estimate; 0 means LLM estimate
}

// RangeEstimator produces a plausible salary range when no comparable
// observations exist.
type RangeEstimator interface {
	EstimateRange(ctx context.Context, jobTitle, location string, years int, claimed float64) (min, max float64, err error)
}

// ObservationFinder is the slice of the store the gate needs.
type ObservationFinder interface {
	ListSalaryObservations(ctx context.Context, find *store.FindSalaryObservation) ([]*store.SalaryObservation, error)
}

// ValidationGate decides whether a newly submitted observation is
// statistically plausible given comparable existing observations.
//
// Validation is asymmetric on purpose: strict when reference data exists,
// permissive when it does not. The first observation in an unseen category
// cannot be judged anomalous, so it is never rejected.
type ValidationGate struct {
	finder    ObservationFinder
	estimator RangeEstimator
}

// NewValidationGate creates a gate over existing observations with an
// estimation fallback.
func NewValidationGate(finder ObservationFinder, estimator RangeEstimator) *ValidationGate {
	return &ValidationGate{finder: finder, estimator: estimator}
}

// Evaluate computes the estimated range and status for a claimed salary.
// It never fails ingestion: store errors during the comparable search
// degrade to the estimation fallback, and an estimator failure degrades to
// a fixed margin around the claimed value.
func (g *ValidationGate) Evaluate(ctx context.Context, jobTitle string, loc Location, years int, claimed float64) *Verdict {
	matches := g.comparables(ctx, jobTitle, loc)
	if len(matches) >= minComparable {
		values := make([]float64, len(matches))
		for i, m := range matches {
			values[i] = m.Amount
		}
		sort.Float64s(values)

		p25 := rag.Percentile(values, 25)
		p75 := rag.Percentile(values, 75)
		q10 := rag.Percentile(values, 10)
		q90 := rag.Percentile(values, 90)

		status := store.SalaryStatusValid
		if claimed < q10*plausibleLowSlack || claimed > q90*plausibleHighSlack {
			status = store.SalaryStatusInvalid
		}
		return &Verdict{
			EstimatedMin: p25 * estimateLowMargin,
			EstimatedMax: p75 * estimateHighMargin,
			Status:       status,
			SampleSize:   len(values),
		}
	}

	// No reference data: delegate to the estimation fallback and accept the
	// observation. Validation happens later, once comparables exist.
	locationLabel := loc.City
	if locationLabel == "" {
		locationLabel = loc.Country
	}
	estMin, estMax, err := g.estimator.EstimateRange(ctx, jobTitle, locationLabel, years, claimed)
	if err != nil {
		slog.Warn("salary range estimation failed, using claimed-value margin", "error", err)
		estMin, estMax = claimed*estimateLowMargin, claimed*estimateHighMargin
	}
	return &Verdict{
		EstimatedMin: estMin,
		EstimatedMax: estMax,
		Status:       store.SalaryStatusValid,
		SampleSize:   0,
	}
}

// comparables searches valid observations progressively: same city, then
// same country, then same market, stopping at the first tier with enough
// matches. With no tier reaching the threshold, the largest tier wins.
func (g *ValidationGate) comparables(ctx context.Context, jobTitle string, loc Location) []*store.SalaryObservation {
	valid := store.SalaryStatusValid
	limit := 200

	var tiers []*store.FindSalaryObservation
	if loc.City != "" {
		tiers = append(tiers, &store.FindSalaryObservation{JobTitle: &jobTitle, City: &loc.City, Status: &valid, Limit: &limit})
	}
	if loc.Country != "" && loc.Country != "Global" {
		tiers = append(tiers, &store.FindSalaryObservation{JobTitle: &jobTitle, Country: &loc.Country, Status: &valid, Limit: &limit})
	}
	tiers = append(tiers, &store.FindSalaryObservation{JobTitle: &jobTitle, Market: &loc.Market, Status: &valid, Limit: &limit})

	var best []*store.SalaryObservation
	for _, find := range tiers {
		matches, err := g.finder.ListSalaryObservations(ctx, find)
		if err != nil {
			slog.Warn("comparable search failed, widening", "error", err)
			continue
		}
		if len(matches) >= enoughComparable {
			return matches
		}
		if len(matches) > len(best) {
			best = matches
		}
	}
	return best
}
