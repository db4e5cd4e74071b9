package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadGoldenPosts reads and parses a golden post set from a JSON file.
func LoadGoldenPosts(path string) ([]GoldenPost, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden posts file: %w", err)
	}

	var posts []GoldenPost
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse golden posts: %w", err)
	}

	return posts, nil
}

// ValidateGoldenPosts checks that all golden posts have required fields and valid values.
func ValidateGoldenPosts(posts []GoldenPost) error {
	seen := make(map[string]struct{}, len(posts))

	for i, p := range posts {
		if p.ID == "" {
			return fmt.Errorf("post at index %d: missing id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("post at index %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Content == "" {
			return fmt.Errorf("post %q: missing content", p.ID)
		}
		if len(p.ExpectedIngredients) == 0 {
			return fmt.Errorf("post %q: no expected ingredients", p.ID)
		}
		if p.ExpectedAgeGroup != "" && !p.ExpectedAgeGroup.IsValid() {
			return fmt.Errorf("post %q: invalid age group %q", p.ID, p.ExpectedAgeGroup)
		}
		if !p.Difficulty.IsValid() {
			return fmt.Errorf("post %q: invalid difficulty %q (must be easy/medium/hard)", p.ID, p.Difficulty)
		}
	}

	return nil
}
