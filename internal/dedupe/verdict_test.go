package dedupe

import (
	"testing"

	"cratekeeper/internal/services"
)

func TestNewVerdictValidation(t *testing.T) {
	cases := []struct {
		name       string
		confidence float64
		matchType  MatchType
		wantErr    bool
	}{
		{"valid fuzzy", 0.85, MatchFuzzyMetadata, false},
		{"valid zero", 0, MatchNone, false},
		{"valid one", 1, MatchExactContent, false},
		{"confidence below range", -0.01, MatchNone, true},
		{"confidence above range", 1.01, MatchExactMetadata, true},
		{"unknown match type", 0.5, MatchType("telepathy"), true},
		{"empty match type", 0.5, MatchType(""), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, err := NewVerdict(false, tc.confidence, tc.matchType, nil, nil)
			if tc.wantErr {
				if !services.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewVerdict: %v", err)
			}
			if verdict.Confidence != tc.confidence || verdict.MatchType != tc.matchType {
				t.Fatalf("verdict = %+v", verdict)
			}
		})
	}
}

func TestNoMatch(t *testing.T) {
	verdict := NoMatch()
	if verdict.IsDuplicate {
		t.Fatal("no-match verdict must not be a duplicate")
	}
	if verdict.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", verdict.Confidence)
	}
	if verdict.MatchType != MatchNone {
		t.Fatalf("match type = %q, want %q", verdict.MatchType, MatchNone)
	}
	if verdict.BestMatch != nil || len(verdict.Matches) != 0 {
		t.Fatalf("no-match verdict carries matches: %+v", verdict)
	}
}

func TestValidateThreshold(t *testing.T) {
	for _, threshold := range []float64{0, 0.5, 1} {
		if err := ValidateThreshold(threshold); err != nil {
			t.Fatalf("ValidateThreshold(%v): %v", threshold, err)
		}
	}
	for _, threshold := range []float64{-0.1, 1.1} {
		if err := ValidateThreshold(threshold); !services.IsValidation(err) {
			t.Fatalf("ValidateThreshold(%v): expected validation error, got %v", threshold, err)
		}
	}
}

func TestPolicyNormalized(t *testing.T) {
	p := Policy{FuzzyFloor: -1, CertainConfidence: 2}.normalized()
	d := DefaultPolicy()
	if p.FuzzyFloor != d.FuzzyFloor || p.CertainConfidence != d.CertainConfidence {
		t.Fatalf("normalized policy = %+v, want defaults", p)
	}

	custom := Policy{FuzzyFloor: 0.6, CertainConfidence: 0.9}.normalized()
	if custom.FuzzyFloor != 0.6 || custom.CertainConfidence != 0.9 {
		t.Fatalf("valid policy was altered: %+v", custom)
	}
}
