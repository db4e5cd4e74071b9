package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
	"github.com/zatekoja/recipemigration/pkg/utils"
	"golang.org/x/time/rate"
)

const (
	enrichmentTemperature = 0.2
	maxPromptInstructions = 4000
)

const enrichmentSystemPrompt = `Sen bebek ve çocuk beslenmesi konusunda uzman bir diyetisyensin.
Sana verilen tarifi incele ve YALNIZCA aşağıdaki şemaya uyan tek bir JSON nesnesi döndür.
Bilmediğin alanları boş bırak. Açıklama ekleme, kod bloğu kullanma.`

const enrichmentSchema = `{
  "description": "tarifin 1-2 cümlelik özeti",
  "prep_time": "ör. 20 dakika",
  "nutrition": {"calories": "", "protein": "", "fiber": "", "vitamins": ""},
  "substitutes": [{"original": "", "replacement": ""}],
  "allergens": [""],
  "diet_types": [""],
  "meal_types": [""],
  "primary_ingredient": "",
  "cross_promotion": "bu tarifle birlikte önerilecek kısa metin"
}`

// EnrichmentInput is what the gateway sends to the model for one post.
type EnrichmentInput struct {
	Title        string
	Ingredients  []string
	Instructions []string
}

// EnrichmentConfig configures the gateway. Timeout bounds a single call and
// MinCallInterval is the minimum spacing between consecutive calls.
type EnrichmentConfig struct {
	Timeout         time.Duration
	MinCallInterval time.Duration
	MaxOutputTokens int
}

// EnrichmentGateway asks the completion provider for the fields the parser cannot
// derive and maps free-text taxonomy names to canonical terms.
type EnrichmentGateway struct {
	provider providers.CompletionProvider
	taxonomy repositories.TaxonomyRepository
	cfg      EnrichmentConfig
	limiter  *rate.Limiter
	validate *validator.Validate
	metrics  *observability.Metrics
}

// NewEnrichmentGateway creates a gateway. A nil provider makes every Enrich call a skip.
func NewEnrichmentGateway(
	provider providers.CompletionProvider,
	taxonomy repositories.TaxonomyRepository,
	cfg EnrichmentConfig,
	metrics *observability.Metrics,
) *EnrichmentGateway {
	limit := rate.Inf
	if cfg.MinCallInterval > 0 {
		limit = rate.Every(cfg.MinCallInterval)
	}
	return &EnrichmentGateway{
		provider: provider,
		taxonomy: taxonomy,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, 1),
		validate: validator.New(),
		metrics:  metrics,
	}
}

// Enabled reports whether a provider is configured.
func (g *EnrichmentGateway) Enabled() bool {
	return g.provider != nil
}

// Enrich never returns an error. Any transport, timeout or parse problem yields an
// empty result whose Outcome is failed with the reason.
func (g *EnrichmentGateway) Enrich(ctx context.Context, in EnrichmentInput) *entities.EnrichmentResult {
	if g.provider == nil {
		return entities.SkippedEnrichment("no completion provider configured")
	}

	logger := observability.LoggerFromContext(ctx)
	providerName := g.provider.Name()

	if err := g.limiter.Wait(ctx); err != nil {
		logger.Warn().Err(err).Str("provider", providerName).Msg("Enrichment rate limiter wait aborted")
		return entities.FailedEnrichment("rate limiter: " + err.Error())
	}

	callCtx := ctx
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.provider.Complete(callCtx, providers.CompletionRequest{
		SystemPrompt:    enrichmentSystemPrompt,
		UserPrompt:      BuildEnrichmentPrompt(in),
		MaxOutputTokens: g.cfg.MaxOutputTokens,
		Temperature:     enrichmentTemperature,
	})
	if err != nil {
		reason := "provider error: " + err.Error()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			reason = "provider timeout"
		}
		observability.RecordEnrichmentMetric(ctx, g.metrics, providerName, string(entities.EnrichmentFailed), time.Since(start))
		logger.Warn().Err(err).Str("provider", providerName).Str("reason", reason).Msg("Enrichment failed")
		return entities.FailedEnrichment(reason)
	}

	result, err := g.parse(resp.Text)
	if err != nil {
		observability.RecordEnrichmentMetric(ctx, g.metrics, providerName, string(entities.EnrichmentFailed), time.Since(start))
		logger.Warn().Err(err).Str("provider", providerName).Msg("Enrichment response could not be parsed")
		return entities.FailedEnrichment("parse error: " + err.Error())
	}

	result.Provider = resp.Provider
	result.Model = resp.Model
	result.Outcome = entities.EnrichmentOutcome{Status: entities.EnrichmentSucceeded}
	observability.RecordEnrichmentMetric(ctx, g.metrics, providerName, string(entities.EnrichmentSucceeded), time.Since(start))
	return result
}

// BuildEnrichmentPrompt renders the user prompt. The same input always yields the same text.
func BuildEnrichmentPrompt(in EnrichmentInput) string {
	var b strings.Builder
	b.WriteString("Tarif başlığı: ")
	b.WriteString(strings.TrimSpace(in.Title))
	b.WriteString("\n\nMalzemeler:\n")
	for _, ing := range in.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			b.WriteString("- ")
			b.WriteString(ing)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nHazırlanışı:\n")
	steps := make([]string, 0, len(in.Instructions))
	for i, step := range in.Instructions {
		steps = append(steps, strconv.Itoa(i+1)+". "+strings.TrimSpace(step))
	}
	b.WriteString(utils.TruncateRunes(strings.Join(steps, "\n"), maxPromptInstructions))

	b.WriteString("\n\nYanıtı şu JSON şemasında ver:\n")
	b.WriteString(enrichmentSchema)
	return b.String()
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	*f = flexString(string(data))
	return nil
}

type enrichmentPayload struct {
	Description string     `json:"description" validate:"max=1000"`
	PrepTime    flexString `json:"prep_time" validate:"max=100"`
	Nutrition   struct {
		Calories flexString `json:"calories" validate:"max=100"`
		Protein  flexString `json:"protein" validate:"max=100"`
		Fiber    flexString `json:"fiber" validate:"max=100"`
		Vitamins flexString `json:"vitamins" validate:"max=300"`
	} `json:"nutrition"`
	Substitutes []struct {
		Original    string `json:"original"`
		Replacement string `json:"replacement"`
	} `json:"substitutes" validate:"max=20"`
	Allergens         []string `json:"allergens" validate:"max=20,dive,max=100"`
	DietTypes         []string `json:"diet_types" validate:"max=20,dive,max=100"`
	MealTypes         []string `json:"meal_types" validate:"max=20,dive,max=100"`
	PrimaryIngredient string   `json:"primary_ingredient" validate:"max=200"`
	CrossPromotion    string   `json:"cross_promotion" validate:"max=1000"`
}

func (g *EnrichmentGateway) parse(text string) (*entities.EnrichmentResult, error) {
	raw := extractJSONObject(text)
	if raw == "" {
		return nil, errors.New("no JSON object in response")
	}

	var p enrichmentPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := g.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	out := &entities.EnrichmentResult{
		Description: strings.TrimSpace(p.Description),
		PrepTime:    string(p.PrepTime),
		Nutrition: entities.Nutrition{
			Calories: string(p.Nutrition.Calories),
			Protein:  string(p.Nutrition.Protein),
			Fiber:    string(p.Nutrition.Fiber),
			Vitamins: string(p.Nutrition.Vitamins),
		},
		Allergens:         cleanNames(p.Allergens),
		DietTypes:         cleanNames(p.DietTypes),
		MealTypes:         cleanNames(p.MealTypes),
		PrimaryIngredient: strings.TrimSpace(p.PrimaryIngredient),
		CrossPromotion:    strings.TrimSpace(p.CrossPromotion),
	}
	for _, s := range p.Substitutes {
		orig, repl := strings.TrimSpace(s.Original), strings.TrimSpace(s.Replacement)
		if orig != "" && repl != "" {
			out.Substitutes = append(out.Substitutes, entities.Substitute{Original: orig, Replacement: repl})
		}
	}
	return out, nil
}

// extractJSONObject strips a Markdown code fence and returns the outermost {...} span.
func extractJSONObject(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return ""
	}
	return cleaned[start : end+1]
}

func cleanNames(names []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[utils.Fold(n)] {
			continue
		}
		seen[utils.Fold(n)] = true
		out = append(out, n)
	}
	return out
}

// MapTerms resolves names to term IDs of taxonomy by exact name, then by slug.
// Names matching neither are dropped; no term is created.
func (g *EnrichmentGateway) MapTerms(ctx context.Context, names []string, taxonomy entities.Taxonomy) []string {
	if len(names) == 0 || g.taxonomy == nil {
		return []string{}
	}

	terms, err := g.taxonomy.ListByTaxonomy(ctx, taxonomy)
	if err != nil {
		log.Warn().Err(err).Str("taxonomy", string(taxonomy)).Msg("Failed to load taxonomy terms")
		return []string{}
	}

	byName := make(map[string]string, len(terms))
	bySlug := make(map[string]string, len(terms))
	for _, t := range terms {
		byName[utils.TurkishLower(strings.TrimSpace(t.Name))] = t.ID
		slug := t.Slug
		if slug == "" {
			slug = utils.Slugify(t.Name)
		}
		bySlug[slug] = t.ID
	}

	ids := []string{}
	seen := make(map[string]bool)
	for _, name := range names {
		id, ok := byName[utils.TurkishLower(strings.TrimSpace(name))]
		if !ok {
			id, ok = bySlug[utils.Slugify(name)]
		}
		if !ok {
			log.Debug().Str("taxonomy", string(taxonomy)).Str("name", name).Msg("Discarding unknown taxonomy name")
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
