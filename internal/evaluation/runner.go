package evaluation

import (
	"context"
	"time"

	"github.com/zatekoja/recipemigration/internal/extraction"
	"github.com/zatekoja/recipemigration/pkg/utils"
)

// Runner scores the extraction pipeline against a set of golden posts.
type Runner struct {
	extractor  *extraction.ContentExtractor
	classifier *extraction.AgeGroupClassifier
	parser     *utils.IngredientParser
}

func NewRunner(rules *extraction.Rules) *Runner {
	return &Runner{
		extractor:  extraction.NewContentExtractor(rules),
		classifier: extraction.NewAgeGroupClassifier(rules),
		parser:     utils.NewIngredientParser(rules.Qualifiers...),
	}
}

func (r *Runner) Run(ctx context.Context, posts []GoldenPost) (*EvalSummary, error) {
	summary := &EvalSummary{
		ByDifficulty: make(map[Difficulty]*DifficultySummary),
	}

	for _, gp := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.updateSummary(summary, r.evaluate(gp))
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) evaluate(gp GoldenPost) EvalResult {
	start := time.Now()
	content := r.extractor.Extract(gp.Content, gp.Title)

	names := make([]string, 0, len(content.Ingredients))
	for _, line := range content.Ingredients {
		if p := r.parser.Parse(line); p.Name != "" {
			names = append(names, p.Name)
		}
	}
	group := r.classifier.Classify(gp.Title, extraction.StripTags(gp.Content))

	return EvalResult{
		PostID:          gp.ID,
		Difficulty:      gp.Difficulty,
		Recall:          Recall(gp.ExpectedIngredients, names),
		Precision:       Precision(gp.ExpectedIngredients, names),
		StepsMatch:      len(content.Instructions) == gp.ExpectedSteps,
		AgeGroupMatch:   group == gp.ExpectedAgeGroup,
		ExtractedNames:  names,
		ClassifiedGroup: group,
		Latency:         time.Since(start),
	}
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.TotalPosts++
	s.AvgRecall += res.Recall
	s.AvgPrecision += res.Precision
	s.AvgLatency += res.Latency
	if res.StepsMatch {
		s.StepsAccuracy++
	}
	if res.AgeGroupMatch {
		s.AgeGroupAccuracy++
	}
	if res.Recall < 1 || !res.StepsMatch || !res.AgeGroupMatch {
		s.Misses = append(s.Misses, res)
	}

	if _, ok := s.ByDifficulty[res.Difficulty]; !ok {
		s.ByDifficulty[res.Difficulty] = &DifficultySummary{}
	}
	ds := s.ByDifficulty[res.Difficulty]
	ds.Count++
	ds.AvgRecall += res.Recall
	ds.AvgPrecision += res.Precision
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalPosts > 0 {
		n := float64(s.TotalPosts)
		s.AvgRecall /= n
		s.AvgPrecision /= n
		s.StepsAccuracy /= n
		s.AgeGroupAccuracy /= n
		s.AvgLatency /= time.Duration(s.TotalPosts)
	}

	for _, ds := range s.ByDifficulty {
		if ds.Count > 0 {
			n := float64(ds.Count)
			ds.AvgRecall /= n
			ds.AvgPrecision /= n
		}
	}
}
