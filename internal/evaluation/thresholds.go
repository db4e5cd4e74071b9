package evaluation

import "fmt"

// Thresholds are the minimum scores an extraction run must reach.
type Thresholds struct {
	MinRecall           float64
	MinPrecision        float64
	MinAgeGroupAccuracy float64
}

// Check returns one message per threshold the summary falls below.
func (t Thresholds) Check(s *EvalSummary) []string {
	var violations []string
	if s.AvgRecall < t.MinRecall {
		violations = append(violations, fmt.Sprintf("ingredient recall %.3f below %.3f", s.AvgRecall, t.MinRecall))
	}
	if s.AvgPrecision < t.MinPrecision {
		violations = append(violations, fmt.Sprintf("ingredient precision %.3f below %.3f", s.AvgPrecision, t.MinPrecision))
	}
	if s.AgeGroupAccuracy < t.MinAgeGroupAccuracy {
		violations = append(violations, fmt.Sprintf("age group accuracy %.3f below %.3f", s.AgeGroupAccuracy, t.MinAgeGroupAccuracy))
	}
	return violations
}
