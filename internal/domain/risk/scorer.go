package risk

import (
	"math"
	"sort"
)

// Feature tags recorded as contributions and surfaced in top_features.
const (
	FeatureAge        = "age"
	FeatureDiabetes   = "diabetes_mellitus"
	FeatureHTN        = "hypertension"
	FeatureAnemia     = "anemia"
	FeatureCreatinine = "creatinine"
	FeatureAlbumin    = "albumin"
	FeatureSystolicBP = "systolic_bp"
	FeatureHeartRate  = "heart_rate"
)

// baselineProbability is the implicit starting term. It is never recorded as
// a contribution and never appears in top_features.
const baselineProbability = 0.10

// defaultTopFeatures is the non-empty guarantee for downstream UI when no
// contribution was recorded at all.
var defaultTopFeatures = []string{FeatureCreatinine, FeatureAge, FeatureDiabetes}

// fallbackRecommendations is returned verbatim when no recommendation rule
// matched. Exactly three entries, never truncated.
var fallbackRecommendations = []string{
	"Maintain healthy lifestyle",
	"Follow up with primary care",
	"Repeat labs in 3 months",
}

// contribution is a named additive increment to probability. Insertion order
// doubles as the tie-break priority when sorting by magnitude.
type contribution struct {
	name  string
	value float64
}

// Score deterministically computes an Assessment from demographics,
// comorbidity flags and the four extracted features. It is a pure function:
// no I/O, no shared state, safe for any number of concurrent callers.
func Score(d Demographics, cm Comorbidities, f Features) Assessment {
	probability := baselineProbability
	contribs := make([]contribution, 0, 8)
	add := func(name string, v float64) {
		contribs = append(contribs, contribution{name: name, value: v})
		probability += v
	}

	// Age scales linearly above 50, capped at +0.20 from age 100 on.
	if ac := ageContribution(d.Age); ac > 0 {
		add(FeatureAge, ac)
	}

	if cm.DiabetesMellitus {
		add(FeatureDiabetes, 0.20)
	}
	if cm.Hypertension {
		add(FeatureHTN, 0.20)
	}
	if cm.Anemia {
		add(FeatureAnemia, 0.10)
	}

	// Creatinine excess above 1.2 mg/dL scales 1:1 up to a 1.0 mg/dL excess,
	// capped at +0.30.
	if f.Creatinine != nil {
		if cc := creatinineContribution(*f.Creatinine); cc > 0 {
			add(FeatureCreatinine, cc)
		}
	}

	// Low albumin is a flat signal, no proportional scaling.
	if f.Albumin != nil && *f.Albumin < 3.5 {
		add(FeatureAlbumin, 0.10)
	}

	if f.SystolicBP != nil {
		switch {
		case *f.SystolicBP > 160:
			add(FeatureSystolicBP, 0.20)
		case *f.SystolicBP > 140:
			add(FeatureSystolicBP, 0.10)
		}
	}

	// Tachycardia and bradycardia collapse into one undifferentiated signal.
	if f.HeartRate != nil && (*f.HeartRate > 100 || *f.HeartRate < 55) {
		add(FeatureHeartRate, 0.05)
	}

	probability = clamp(probability, 0.0, 0.99)

	tier := tierFor(probability)
	top := topFeatures(contribs)

	assessment := Assessment{
		RiskLevel:       tier,
		Probability:     round2(probability),
		TopFeatures:     top,
		Recommendations: recommendations(top, tier, f),
	}

	// Non-empty guarantee for downstream UI: with zero recorded contributions
	// a fixed default list stands in. Recommendation rules above key off the
	// recorded contributions only, so the substitution does not trigger them.
	if len(assessment.TopFeatures) == 0 {
		assessment.TopFeatures = make([]string, len(defaultTopFeatures))
		copy(assessment.TopFeatures, defaultTopFeatures)
	}

	return assessment
}

func ageContribution(age int) float64 {
	return clamp((float64(age)-50)/50*0.20, 0.0, 0.20)
}

func creatinineContribution(creatinine float64) float64 {
	return clamp(creatinine-1.2, 0.0, 1.0) * 0.30
}

// tierFor maps probability to a tier; band lower bounds are inclusive.
func tierFor(probability float64) string {
	switch {
	case probability >= 0.70:
		return TierHigh
	case probability >= 0.40:
		return TierModerate
	default:
		return TierLow
	}
}

// topFeatures sorts contributions descending by magnitude with a stable sort,
// so ties keep the fixed insertion priority (age, diabetes, hypertension,
// anemia, creatinine, albumin, systolic_bp, heart_rate), and takes the first
// three. An empty input yields an empty result; the caller decides whether to
// substitute the default list.
func topFeatures(contribs []contribution) []string {
	sorted := make([]contribution, len(contribs))
	copy(sorted, contribs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].value > sorted[j].value
	})

	n := len(sorted)
	if n > 3 {
		n = 3
	}
	out := make([]string, 0, n)
	for _, c := range sorted[:n] {
		out = append(out, c.name)
	}
	return out
}

// recommendations walks a fixed priority list of independent rules and keeps
// the first four matches. Rule 2 deliberately tests the extracted systolic
// value directly, whether it came from a mean or a latest reading.
func recommendations(top []string, tier string, f Features) []string {
	var recs []string
	if containsFeature(top, FeatureCreatinine) {
		recs = append(recs, "Monitor creatinine levels")
	}
	if containsFeature(top, FeatureHTN) || (f.SystolicBP != nil && *f.SystolicBP > 140) {
		recs = append(recs, "Check blood pressure daily")
	}
	if tier == TierHigh {
		recs = append(recs, "Schedule nephrology consultation")
	}
	if containsFeature(top, FeatureDiabetes) {
		recs = append(recs, "Optimize glycemic control")
	}
	if containsFeature(top, FeatureAlbumin) {
		recs = append(recs, "Assess nutrition and albumin levels")
	}

	if len(recs) == 0 {
		out := make([]string, len(fallbackRecommendations))
		copy(out, fallbackRecommendations)
		return out
	}
	if len(recs) > 4 {
		recs = recs[:4]
	}
	return recs
}

func containsFeature(features []string, name string) bool {
	for _, f := range features {
		if f == name {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
