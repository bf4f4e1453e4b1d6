// Package indicator provides the fixed registry of named metric functions
// that turn a raw numeric series into a normalized indicator.
//
// Each indicator is a pure function over a series ordered oldest to newest.
// Results are in [0,1] except where documented (dominance can dip below 0
// for extremely erratic series). Empty or short series never raise; every
// indicator has a documented fallback.
package indicator

import (
	"fmt"

	"github.com/okian/formguide/internal/domain/stat"
)

// Indicator ids in the closed registry.
const (
	WinProbability   = "winProbability"
	PerformanceIndex = "performanceIndex"
	Consistency      = "consistency"
	Momentum         = "momentum"
	ClutchFactor     = "clutchFactor"
	Efficiency       = "efficiency"
	Dominance        = "dominance"
	Resilience       = "resilience"
)

// Tuning constants shared by the indicator formulas.
const (
	momentumWindow      = 5
	performanceCeiling  = 100.0
	consistencySpread   = 50.0
	dominanceMidpoint   = 50.0
	dominanceScale      = 10.0
	dominanceVarCeiling = 1000.0
	resilienceThreshold = 50.0
	neutralFallback     = 0.5
)

// Descriptor pairs an indicator with its documentation. The set of
// descriptors is immutable after construction.
type Descriptor struct {
	ID          string
	Description string
	Compute     func(series []float64) float64
}

// Result is the computed value of one indicator plus its description.
type Result struct {
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// Registry holds the closed set of indicators, validated at construction.
type Registry struct {
	order []string
	byID  map[string]Descriptor
}

// NewRegistry builds the registry with the full fixed indicator set.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]Descriptor)}
	for _, d := range []Descriptor{
		{WinProbability, "logistic win likelihood from mean recent form", winProbability},
		{PerformanceIndex, "mean performance normalized to [0,1]", performanceIndex},
		{Consistency, "inverse of score spread; 1 means perfectly steady", consistency},
		{Momentum, "recent form against earlier baseline", momentum},
		{ClutchFactor, "recency-weighted mean, later samples count more", clutchFactor},
		{Efficiency, "softmax share of the oldest sample", efficiency},
		{Dominance, "how far form sits above the field midpoint", dominance},
		{Resilience, "bounce-back rate after sub-par outings", resilience},
	} {
		r.order = append(r.order, d.ID)
		r.byID[d.ID] = d
	}
	return r
}

// IDs enumerates registered indicator ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ComputeOne evaluates a single indicator. An unregistered id is a
// caller-visible miss (ErrUnknownIndicator), never a silent zero.
func (r *Registry) ComputeOne(id string, series []float64) (float64, error) {
	d, ok := r.byID[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownIndicator, id)
	}
	return d.Compute(series), nil
}

// ComputeAll evaluates every registered indicator against the series.
func (r *Registry) ComputeAll(series []float64) map[string]Result {
	out := make(map[string]Result, len(r.byID))
	for id, d := range r.byID {
		out[id] = Result{Value: d.Compute(series), Description: d.Description}
	}
	return out
}

func winProbability(series []float64) float64 {
	return stat.Sigmoid(stat.Mean(series) - 0.5)
}

func performanceIndex(series []float64) float64 {
	return stat.Clamp01(stat.Mean(series) / performanceCeiling)
}

func consistency(series []float64) float64 {
	return 1 - stat.Clamp01(stat.StdDev(series)/consistencySpread)
}

func momentum(series []float64) float64 {
	if len(series) < 2 {
		return neutralFallback
	}
	split := max(len(series)-momentumWindow, 0)
	return stat.Sigmoid(stat.Mean(series[split:]) - stat.Mean(series[:split]))
}

func clutchFactor(series []float64) float64 {
	var weighted, totalWeight float64
	for i, x := range series {
		w := float64(i + 1)
		weighted += x * w
		totalWeight += w
	}
	mean := weighted / max(totalWeight, 1)
	return stat.Clamp01(mean / performanceCeiling)
}

func efficiency(series []float64) float64 {
	probs, err := stat.Softmax(series)
	if err != nil {
		return 0
	}
	return probs[0]
}

func dominance(series []float64) float64 {
	lead := stat.Sigmoid((stat.Mean(series) - dominanceMidpoint) / dominanceScale)
	return lead * (1 - stat.Variance(series)/dominanceVarCeiling)
}

func resilience(series []float64) float64 {
	var bounces int
	for i := 0; i+1 < len(series); i++ {
		if series[i] < resilienceThreshold && series[i+1] > series[i] {
			bounces++
		}
	}
	return float64(bounces) / float64(max(len(series)-1, 1))
}
