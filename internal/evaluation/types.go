package evaluation

import (
	"time"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

// Difficulty grades how irregular a golden post's markup is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"   // headed sections with <ul> lists
	DifficultyMedium Difficulty = "medium" // headings in <strong>/<p>, <br>-separated lines
	DifficultyHard   Difficulty = "hard"   // no headings, free text
)

// IsValid checks if the difficulty value is one of the defined constants.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GoldenPost is a hand-labelled legacy post with the expected extraction.
type GoldenPost struct {
	ID                  string            `json:"id"`
	Title               string            `json:"title"`
	Content             string            `json:"content"`
	ExpectedIngredients []string          `json:"expected_ingredients"`
	ExpectedSteps       int               `json:"expected_steps"`
	ExpectedAgeGroup    entities.AgeGroup `json:"expected_age_group"`
	Difficulty          Difficulty        `json:"difficulty"`
}

// EvalResult holds the evaluation outcome for a single post.
type EvalResult struct {
	PostID          string
	Difficulty      Difficulty
	Recall          float64
	Precision       float64
	StepsMatch      bool
	AgeGroupMatch   bool
	ExtractedNames  []string
	ClassifiedGroup entities.AgeGroup
	Latency         time.Duration
}

// EvalSummary holds aggregate metrics across all golden posts.
type EvalSummary struct {
	TotalPosts       int
	AvgRecall        float64
	AvgPrecision     float64
	StepsAccuracy    float64
	AgeGroupAccuracy float64
	AvgLatency       time.Duration
	ByDifficulty     map[Difficulty]*DifficultySummary
	Misses           []EvalResult
}

// DifficultySummary holds metrics grouped by difficulty.
type DifficultySummary struct {
	Count        int
	AvgRecall    float64
	AvgPrecision float64
}
