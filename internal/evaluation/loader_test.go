package evaluation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "golden.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadGoldenPosts_ValidFile(t *testing.T) {
	content := `[
		{"id": "g1", "title": "Havuç Püresi", "content": "<ul><li>1 adet havuç</li></ul>", "expected_ingredients": ["havuç"], "expected_steps": 0, "expected_age_group": "early-introduction", "difficulty": "easy"},
		{"id": "g2", "title": "Omlet", "content": "<p>2 yumurta</p>", "expected_ingredients": ["yumurta"], "difficulty": "hard"}
	]`
	path := writeTempFile(t, content)

	posts, err := LoadGoldenPosts(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ExpectedAgeGroup != entities.AgeGroupEarlyIntroduction {
		t.Errorf("expected early-introduction, got %s", posts[0].ExpectedAgeGroup)
	}
	if posts[1].Difficulty != DifficultyHard {
		t.Errorf("expected hard, got %s", posts[1].Difficulty)
	}
	if err := ValidateGoldenPosts(posts); err != nil {
		t.Errorf("expected valid posts, got %v", err)
	}
}

func TestLoadGoldenPosts_InvalidFile(t *testing.T) {
	if _, err := LoadGoldenPosts("/nonexistent/path.json"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadGoldenPosts_MalformedJSON(t *testing.T) {
	path := writeTempFile(t, `{"id": `)
	if _, err := LoadGoldenPosts(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateGoldenPosts(t *testing.T) {
	valid := GoldenPost{ID: "g1", Content: "<p>x</p>", ExpectedIngredients: []string{"x"}, Difficulty: DifficultyEasy}

	cases := map[string][]GoldenPost{
		"missing id":         {{Content: "x", ExpectedIngredients: []string{"x"}, Difficulty: DifficultyEasy}},
		"duplicate id":       {valid, valid},
		"missing content":    {{ID: "g2", ExpectedIngredients: []string{"x"}, Difficulty: DifficultyEasy}},
		"no ingredients":     {{ID: "g3", Content: "x", Difficulty: DifficultyEasy}},
		"invalid age group":  {{ID: "g4", Content: "x", ExpectedIngredients: []string{"x"}, ExpectedAgeGroup: "newborn", Difficulty: DifficultyEasy}},
		"invalid difficulty": {{ID: "g5", Content: "x", ExpectedIngredients: []string{"x"}, Difficulty: "extreme"}},
	}

	for name, posts := range cases {
		t.Run(name, func(t *testing.T) {
			if err := ValidateGoldenPosts(posts); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
