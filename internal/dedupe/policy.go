package dedupe

import (
	"cratekeeper/internal/services"
)

// Policy centralizes duplicate-detection thresholds.
type Policy struct {
	// FuzzyFloor is the minimum similarity a fuzzy candidate must reach to
	// be reported at all. It is independent of the caller-supplied duplicate
	// threshold; scores in [floor, threshold) form the uncertain band.
	FuzzyFloor float64
	// CertainConfidence marks a verdict certain regardless of match type.
	CertainConfidence float64
}

// DefaultPolicy returns the repository defaults.
func DefaultPolicy() Policy {
	return Policy{
		FuzzyFloor:        0.70,
		CertainConfidence: 0.95,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.FuzzyFloor <= 0 || p.FuzzyFloor > 1 {
		p.FuzzyFloor = d.FuzzyFloor
	}
	if p.CertainConfidence <= 0 || p.CertainConfidence > 1 {
		p.CertainConfidence = d.CertainConfidence
	}
	return p
}

// Certain reports whether a confidence counts as certain under this policy.
func (p Policy) Certain(confidence float64) bool {
	return confidence >= p.CertainConfidence
}

// ValidateThreshold rejects fuzzy thresholds outside [0, 1] before any I/O.
func ValidateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return services.Wrap(services.ErrValidation, "dedupe", "threshold",
			"fuzzy threshold must be in [0, 1]", nil)
	}
	return nil
}
