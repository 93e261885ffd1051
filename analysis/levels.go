package analysis

import "github.com/TFMV/codescope/types"

type step struct {
	limit float64
	level types.Level
}

// Scale classifies a score into ordered severity buckets. Ascending scales
// pick the first step whose limit is >= the score; descending scales pick the
// first step whose limit is <= the score. Scores past every step fall back to
// the last bucket.
type Scale struct {
	descending bool
	steps      []step
	fallback   types.Level
}

// Classify returns the bucket for v.
func (s Scale) Classify(v float64) types.Level {
	for _, st := range s.steps {
		if (!s.descending && v <= st.limit) || (s.descending && v >= st.limit) {
			return st.level
		}
	}
	return s.fallback
}

// ComplexityScale buckets cyclomatic complexity.
var ComplexityScale = Scale{
	steps: []step{
		{5, types.Level{Label: "Low", Color: "#3fb950", Level: 0}},
		{10, types.Level{Label: "Moderate", Color: "#d29922", Level: 1}},
		{20, types.Level{Label: "High", Color: "#f85149", Level: 2}},
	},
	fallback: types.Level{Label: "Critical", Color: "#da3633", Level: 3},
}

// MaintainabilityScale buckets the maintainability index.
var MaintainabilityScale = Scale{
	descending: true,
	steps: []step{
		{80, types.Level{Label: "Excellent", Color: "#3fb950", Level: 0}},
		{60, types.Level{Label: "Good", Color: "#58a6ff", Level: 1}},
		{40, types.Level{Label: "Moderate", Color: "#d29922", Level: 2}},
		{20, types.Level{Label: "Poor", Color: "#f85149", Level: 3}},
	},
	fallback: types.Level{Label: "Critical", Color: "#da3633", Level: 4},
}

// ComplexityLevel classifies a cyclomatic complexity score.
func ComplexityLevel(cc int) types.Level {
	return ComplexityScale.Classify(float64(cc))
}

// MaintainabilityLevel classifies a maintainability index.
func MaintainabilityLevel(mi float64) types.Level {
	return MaintainabilityScale.Classify(mi)
}
