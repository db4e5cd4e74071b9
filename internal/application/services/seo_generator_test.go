package services_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/recipemigration/internal/application/services"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

func titleOfLength(n int) string {
	return strings.Repeat("a", n)
}

func TestSEOMetadataGenerator_Title(t *testing.T) {
	g := services.NewSEOMetadataGenerator("")

	tests := []struct {
		name   string
		length int
		check  func(t *testing.T, title, got string)
	}{
		{
			name:   "short title gets the brand suffix",
			length: 40,
			check: func(t *testing.T, title, got string) {
				assert.Equal(t, title+services.DefaultBrandSuffix, got)
			},
		},
		{
			name:   "title that would overflow with the suffix stays bare",
			length: 58,
			check: func(t *testing.T, title, got string) {
				assert.Equal(t, title, got)
			},
		},
		{
			name:   "long title is truncated with an ellipsis",
			length: 70,
			check: func(t *testing.T, title, got string) {
				assert.Equal(t, services.SEOTitleMaxLength, utf8.RuneCountInString(got))
				assert.True(t, strings.HasSuffix(got, "..."))
				assert.NotContains(t, got, services.DefaultBrandSuffix)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := titleOfLength(tt.length)
			got := g.Generate(services.SEOInput{Title: title}).Title
			assert.LessOrEqual(t, utf8.RuneCountInString(got), services.SEOTitleMaxLength)
			tt.check(t, title, got)
		})
	}
}

func TestSEOMetadataGenerator_Description(t *testing.T) {
	g := services.NewSEOMetadataGenerator(" | Test")

	t.Run("AI description wins", func(t *testing.T) {
		got := g.Generate(services.SEOInput{
			Title:         "Elma Püresi",
			AgeGroup:      entities.AgeGroupEarlyIntroduction,
			AIDescription: "  Tatlı ve hafif bir ilk tat.  ",
		})
		assert.Equal(t, "Tatlı ve hafif bir ilk tat.", got.Description)
	})

	t.Run("synthesised from age group and prep time", func(t *testing.T) {
		got := g.Generate(services.SEOInput{
			Title:    "Elma Püresi",
			AgeGroup: entities.AgeGroupEarlyIntroduction,
			PrepTime: "10 dakika",
			Excerpt:  "<p>ignored</p>",
		})
		assert.Equal(t, "Elma Püresi tarifi. 6-8 Ay bebekler için uygundur. Hazırlama süresi: 10 dakika.", got.Description)
	})

	t.Run("falls back to the cleaned excerpt, then the title", func(t *testing.T) {
		got := g.Generate(services.SEOInput{Title: "Elma Püresi", Excerpt: "<p>Pratik <strong>elma</strong> püresi</p>"})
		assert.Equal(t, "Pratik elma püresi", got.Description)

		got = g.Generate(services.SEOInput{Title: "Elma Püresi"})
		assert.Equal(t, "Elma Püresi", got.Description)
	})

	t.Run("description is capped", func(t *testing.T) {
		got := g.Generate(services.SEOInput{Title: "x", AIDescription: strings.Repeat("uzun ", 60)})
		require.Equal(t, services.SEODescMaxLength, utf8.RuneCountInString(got.Description))
		assert.True(t, strings.HasSuffix(got.Description, "..."))
	})
}

func TestSEOMetadataGenerator_FocusKeyword(t *testing.T) {
	g := services.NewSEOMetadataGenerator("")

	assert.Equal(t, "ıspanaklı yumurta muffin", g.Generate(services.SEOInput{Title: "Ispanaklı Yumurta Muffin Tarifi"}).FocusKeyword)
	assert.Equal(t, "elma havuç püresi", g.Generate(services.SEOInput{Title: "Elma ve Havuç Püresi"}).FocusKeyword)
	assert.Equal(t, "bebekler muzlu kek", g.Generate(services.SEOInput{Title: "Bebekler İçin Muzlu Kek Nasıl Yapılır?"}).FocusKeyword)
}
