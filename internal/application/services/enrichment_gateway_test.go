package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/recipemigration/internal/application/services"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
)

const enrichmentJSON = "```json\n" + `{
  "description": "Bebekler için yumuşak kıvamlı bir püre.",
  "prep_time": 15,
  "nutrition": {"calories": "80 kcal", "protein": 2, "fiber": "1 g", "vitamins": "A, C"},
  "substitutes": [{"original": "İnek sütü", "replacement": "Anne sütü"}, {"original": "", "replacement": "x"}],
  "allergens": ["Süt", "süt", " "],
  "diet_types": ["Vejetaryen"],
  "meal_types": ["Kahvaltı"],
  "primary_ingredient": "Kabak",
  "cross_promotion": "Kabaklı omlet tarifimize de göz atın."
}` + "\n```"

func TestEnrichmentGateway_Enrich(t *testing.T) {
	ctx := context.Background()
	input := services.EnrichmentInput{
		Title:        "Kabak Püresi",
		Ingredients:  []string{"Kabak", "Su"},
		Instructions: []string{"Kabağı haşlayın.", "Ezin."},
	}

	t.Run("parses a fenced JSON response", func(t *testing.T) {
		provider := new(MockCompletionProvider)
		g := services.NewEnrichmentGateway(provider, nil, services.EnrichmentConfig{Timeout: time.Second}, nil)

		provider.On("Complete", mock.Anything, mock.MatchedBy(func(req providers.CompletionRequest) bool {
			return req.UserPrompt == services.BuildEnrichmentPrompt(input) && req.SystemPrompt != ""
		})).Return(&providers.CompletionResponse{Text: enrichmentJSON, Provider: "mock", Model: "m1"}, nil)

		res := g.Enrich(ctx, input)

		require.True(t, res.Succeeded())
		assert.Equal(t, "Bebekler için yumuşak kıvamlı bir püre.", res.Description)
		assert.Equal(t, "15", res.PrepTime)
		assert.Equal(t, "80 kcal", res.Nutrition.Calories)
		assert.Equal(t, "2", res.Nutrition.Protein)
		assert.Equal(t, []entities.Substitute{{Original: "İnek sütü", Replacement: "Anne sütü"}}, res.Substitutes)
		assert.Equal(t, []string{"Süt"}, res.Allergens)
		assert.Equal(t, "Kabak", res.PrimaryIngredient)
		assert.Equal(t, "m1", res.Model)
	})

	t.Run("timeout degrades to an empty failed result", func(t *testing.T) {
		provider := new(MockCompletionProvider)
		g := services.NewEnrichmentGateway(provider, nil, services.EnrichmentConfig{Timeout: 20 * time.Millisecond}, nil)

		provider.On("Complete", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(nil, context.DeadlineExceeded)

		res := g.Enrich(ctx, input)

		require.NotNil(t, res)
		assert.False(t, res.Succeeded())
		assert.Equal(t, entities.EnrichmentFailed, res.Outcome.Status)
		assert.Equal(t, "provider timeout", res.Outcome.Reason)
		assert.True(t, res.Nutrition.IsEmpty())
		assert.Empty(t, res.Description)
		assert.Empty(t, res.Allergens)
	})

	t.Run("unparsable text is a failure, not an error", func(t *testing.T) {
		provider := new(MockCompletionProvider)
		g := services.NewEnrichmentGateway(provider, nil, services.EnrichmentConfig{}, nil)

		provider.On("Complete", mock.Anything, mock.Anything).
			Return(&providers.CompletionResponse{Text: "Üzgünüm, yardımcı olamam."}, nil)

		res := g.Enrich(ctx, input)
		assert.Equal(t, entities.EnrichmentFailed, res.Outcome.Status)
		assert.Contains(t, res.Outcome.Reason, "parse error")
	})

	t.Run("transport errors are a failure", func(t *testing.T) {
		provider := new(MockCompletionProvider)
		g := services.NewEnrichmentGateway(provider, nil, services.EnrichmentConfig{}, nil)

		provider.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("status 500"))

		res := g.Enrich(ctx, input)
		assert.Equal(t, entities.EnrichmentFailed, res.Outcome.Status)
		assert.Contains(t, res.Outcome.Reason, "status 500")
	})

	t.Run("no provider skips", func(t *testing.T) {
		g := services.NewEnrichmentGateway(nil, nil, services.EnrichmentConfig{}, nil)
		res := g.Enrich(ctx, input)
		assert.Equal(t, entities.EnrichmentSkipped, res.Outcome.Status)
		assert.False(t, g.Enabled())
	})
}

func TestEnrichmentGateway_EnforcesMinCallInterval(t *testing.T) {
	provider := new(MockCompletionProvider)
	interval := 50 * time.Millisecond
	g := services.NewEnrichmentGateway(provider, nil, services.EnrichmentConfig{MinCallInterval: interval}, nil)

	provider.On("Complete", mock.Anything, mock.Anything).
		Return(&providers.CompletionResponse{Text: "{}"}, nil)

	start := time.Now()
	g.Enrich(context.Background(), services.EnrichmentInput{Title: "a"})
	g.Enrich(context.Background(), services.EnrichmentInput{Title: "b"})

	assert.GreaterOrEqual(t, time.Since(start), interval-5*time.Millisecond)
	provider.AssertNumberOfCalls(t, "Complete", 2)
}

func TestBuildEnrichmentPrompt_Deterministic(t *testing.T) {
	in := services.EnrichmentInput{
		Title:        "Elmalı Yulaf",
		Ingredients:  []string{"Elma", "", "Yulaf"},
		Instructions: []string{"Elmayı rendeleyin.", "Yulafla karıştırın."},
	}

	p1 := services.BuildEnrichmentPrompt(in)
	p2 := services.BuildEnrichmentPrompt(in)

	assert.Equal(t, p1, p2)
	assert.Contains(t, p1, "Tarif başlığı: Elmalı Yulaf")
	assert.Contains(t, p1, "- Elma\n- Yulaf\n")
	assert.Contains(t, p1, "2. Yulafla karıştırın.")
	assert.Contains(t, p1, `"cross_promotion"`)
}

func TestEnrichmentGateway_MapTerms(t *testing.T) {
	ctx := context.Background()
	taxonomy := new(MockTaxonomyRepository)
	g := services.NewEnrichmentGateway(nil, taxonomy, services.EnrichmentConfig{}, nil)

	taxonomy.On("ListByTaxonomy", mock.Anything, entities.TaxonomyAllergen).Return([]*entities.TaxonomyTerm{
		{ID: "t-sut", Name: "Süt", Slug: "sut"},
		{ID: "t-yumurta", Name: "Yumurta", Slug: "yumurta"},
		{ID: "t-gluten", Name: "Gluten", Slug: "gluten"},
	}, nil)

	ids := g.MapTerms(ctx, []string{"süt", "YUMURTA", "Glüten", "Fıstık", "Süt"}, entities.TaxonomyAllergen)

	assert.Equal(t, []string{"t-sut", "t-yumurta", "t-gluten"}, ids)
	taxonomy.AssertNotCalled(t, "EnsureTerm", mock.Anything, mock.Anything, mock.Anything)

	taxonomy.On("ListByTaxonomy", mock.Anything, entities.TaxonomyDietType).Return(nil, errors.New("db down"))
	assert.Empty(t, g.MapTerms(ctx, []string{"Vegan"}, entities.TaxonomyDietType))
	assert.Empty(t, g.MapTerms(ctx, nil, entities.TaxonomyMealType))
}
