package services

import (
	"strings"
	"unicode/utf8"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/extraction"
	"github.com/zatekoja/recipemigration/pkg/utils"
)

const (
	DefaultBrandSuffix = " | Minik Tarifler"
	SEOTitleMaxLength  = 60
	SEODescMaxLength   = 160
	focusKeywordTokens = 3
)

var seoStopWords = map[string]bool{
	"ve": true, "ile": true, "için": true, "bir": true, "de": true, "da": true,
	"en": true, "çok": true, "gibi": true, "nasıl": true, "yapılır": true,
	"tarif": true, "tarifi": true, "tarifleri": true,
}

// SEOInput carries the recipe fields the generator reads.
type SEOInput struct {
	Title         string
	Excerpt       string
	AgeGroup      entities.AgeGroup
	PrepTime      string
	AIDescription string
}

// SEOMetadataGenerator derives search-engine metadata with deterministic fallbacks.
type SEOMetadataGenerator struct {
	brandSuffix string
}

// NewSEOMetadataGenerator creates a generator; an empty suffix uses DefaultBrandSuffix.
func NewSEOMetadataGenerator(brandSuffix string) *SEOMetadataGenerator {
	if brandSuffix == "" {
		brandSuffix = DefaultBrandSuffix
	}
	return &SEOMetadataGenerator{brandSuffix: brandSuffix}
}

// Generate returns the title, description and focus keyword for in.
func (g *SEOMetadataGenerator) Generate(in SEOInput) entities.SEOMetadata {
	title := utils.CollapseSpaces(in.Title)
	return entities.SEOMetadata{
		Title:        g.title(title),
		Description:  g.description(title, in),
		FocusKeyword: focusKeyword(title),
	}
}

func (g *SEOMetadataGenerator) title(title string) string {
	if withBrand := title + g.brandSuffix; utf8.RuneCountInString(withBrand) <= SEOTitleMaxLength {
		return withBrand
	}
	return utils.TruncateRunes(title, SEOTitleMaxLength)
}

func (g *SEOMetadataGenerator) description(title string, in SEOInput) string {
	desc := utils.CollapseSpaces(in.AIDescription)

	if desc == "" {
		label := in.AgeGroup.Label()
		prep := utils.CollapseSpaces(in.PrepTime)
		if label != "" || prep != "" {
			parts := []string{title + " tarifi."}
			if label != "" {
				parts = append(parts, label+" bebekler için uygundur.")
			}
			if prep != "" {
				parts = append(parts, "Hazırlama süresi: "+prep+".")
			}
			desc = strings.Join(parts, " ")
		}
	}
	if desc == "" {
		desc = utils.CollapseSpaces(extraction.StripTags(in.Excerpt))
	}
	if desc == "" {
		desc = title
	}
	return utils.TruncateRunes(desc, SEODescMaxLength)
}

func focusKeyword(title string) string {
	var tokens []string
	for _, w := range strings.Fields(utils.TurkishLower(title)) {
		w = strings.Trim(w, ".,;:!?()[]\"'’-–|")
		if w == "" || seoStopWords[w] {
			continue
		}
		tokens = append(tokens, w)
		if len(tokens) == focusKeywordTokens {
			break
		}
	}
	return strings.Join(tokens, " ")
}
