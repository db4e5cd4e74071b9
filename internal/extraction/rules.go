package extraction

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Rules are the heading, note and age tables that drive extraction.
type Rules struct {
	IngredientHeadings  []string
	PreparationHeadings []string
	ExpertTitles        []string
	NoteTerminators     []string
	SpecialNotePrefixes []string
	Qualifiers          []string
	AgeRules            []AgeRule
}

// AgeRule maps a pattern over the lower-cased title and body to an age group.
type AgeRule struct {
	Pattern *regexp.Regexp
	Group   entities.AgeGroup
}

// ageSuffix accepts "ay" with its case and possessive endings ("aylık", "aydan", "aya",
// "ayı", "ayını", "ayında", "aylarda"). A following letter must belong to one of them, so
// "ayran" is rejected.
const ageSuffix = `ay(?:l[ıi]k\p{L}*|lar\p{L}*|d[ae]n?|[ae]|[ıi](?:n?[ıiae]|n?d[ae]n?|n)?)(?:[^\p{L}]|$)` +
	`|ay(?:[^\p{L}]|$)`

// monthWords builds a rule pattern for spelled-out month counts such as "altı aylık".
func monthWords(words string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}])(?:` + words + `)\s+(?:` + ageSuffix + `)`)
}

// DefaultRules returns the built-in tables for the legacy corpus.
func DefaultRules() *Rules {
	return &Rules{
		IngredientHeadings: []string{
			"Gerekli Malzemeler", "Malzeme Listesi", "Malzemeler", "Malzeme", "İçindekiler",
		},
		PreparationHeadings: []string{
			"Hazırlanışı", "Hazırlanış", "Yapılışı", "Yapılış", "Hazırlama", "Tarifi",
		},
		ExpertTitles: []string{
			"Prof. Dr.", "Doç. Dr.", "Uzm. Dyt.", "Uzm. Dr.", "Dyt.", "Dr.", "Diyetisyen",
		},
		NoteTerminators: []string{
			"Afiyet olsun", "Kaynak:", "Etiketler:",
		},
		SpecialNotePrefixes: []string{
			"Önemli Not", "Püf Noktası", "Not", "Uyarı", "Dikkat", "İpucu",
		},
		AgeRules: []AgeRule{
			{regexp.MustCompile(`(?:^|[^\d])[4-8](?:\s*[-–]\s*[4-8])?\s*\.?\s*(?:` + ageSuffix + `)`), entities.AgeGroupEarlyIntroduction},
			{regexp.MustCompile(`(?:^|[^\d])(?:9|10|11)(?:\s*[-–]\s*(?:9|10|11|12))?\s*\.?\s*(?:` + ageSuffix + `)`), entities.AgeGroupExploration},
			{regexp.MustCompile(`(?:^|[^\d])(?:1[2-9]|2[0-4])(?:\s*[-–]\s*\d+)?\s*\.?\s*(?:` + ageSuffix + `)`), entities.AgeGroupTransition},
			{monthWords(`on iki|on beş|on sekiz|yirmi dört`), entities.AgeGroupTransition},
			{monthWords(`dokuz|on bir|on`), entities.AgeGroupExploration},
			{monthWords(`dört|beş|altı|yedi|sekiz`), entities.AgeGroupEarlyIntroduction},
			{regexp.MustCompile(`(?:^|[^\d])1(?:\s*[-–]\s*2)?\s*yaş`), entities.AgeGroupTransition},
			{regexp.MustCompile(`(?:^|[^\d])[2-9](?:\s*[-–]\s*\d+)?\s*yaş`), entities.AgeGroupToddlerPlus},
			{regexp.MustCompile(`ek gıda|ek besin|ilk lokma|ilk tat`), entities.AgeGroupEarlyIntroduction},
			{regexp.MustCompile(`parmak (?:yiyecek|gıda)`), entities.AgeGroupExploration},
			{regexp.MustCompile(`yürümeye başla`), entities.AgeGroupTransition},
			{regexp.MustCompile(`okul öncesi|anaokulu|okul çağı|çocuklar için`), entities.AgeGroupToddlerPlus},
		},
	}
}

type ruleFile struct {
	AgeRules []struct {
		Pattern string `yaml:"pattern"`
		Group   string `yaml:"group"`
	} `yaml:"age_rules"`
	SpecialNotePrefixes []string `yaml:"special_note_prefixes"`
	Qualifiers          []string `yaml:"qualifiers"`
	IngredientHeadings  []string `yaml:"ingredient_headings"`
	PreparationHeadings []string `yaml:"preparation_headings"`
}

// LoadRules reads a YAML override file and appends its entries to the defaults.
// An empty path returns the defaults.
func LoadRules(path string) (*Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := rules.Merge(data); err != nil {
		return nil, err
	}
	return rules, nil
}

// Merge appends the YAML document's entries to r. Age rules are added after the built-in ones.
func (r *Rules) Merge(data []byte) error {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse rules file: %w", err)
	}

	for _, ar := range file.AgeRules {
		group := entities.AgeGroup(ar.Group)
		if !group.IsValid() {
			return fmt.Errorf("unknown age group %q in rules file", ar.Group)
		}
		re, err := regexp.Compile(utils.TurkishLower(ar.Pattern))
		if err != nil {
			return fmt.Errorf("invalid age rule pattern %q: %w", ar.Pattern, err)
		}
		r.AgeRules = append(r.AgeRules, AgeRule{Pattern: re, Group: group})
	}

	r.SpecialNotePrefixes = appendNonEmpty(r.SpecialNotePrefixes, file.SpecialNotePrefixes)
	r.Qualifiers = appendNonEmpty(r.Qualifiers, file.Qualifiers)
	r.IngredientHeadings = appendNonEmpty(r.IngredientHeadings, file.IngredientHeadings)
	r.PreparationHeadings = appendNonEmpty(r.PreparationHeadings, file.PreparationHeadings)
	return nil
}

func appendNonEmpty(dst, src []string) []string {
	for _, s := range src {
		if s = strings.TrimSpace(s); s != "" {
			dst = append(dst, s)
		}
	}
	return dst
}

var letterClasses = map[rune]string{
	'i': `[iıİI]`, 'ı': `[iıİI]`,
	's': `[sşSŞ]`, 'ş': `[sşSŞ]`,
	'c': `[cçCÇ]`, 'ç': `[cçCÇ]`,
	'g': `[gğGĞ]`, 'ğ': `[gğGĞ]`,
	'u': `[uüUÜ]`, 'ü': `[uüUÜ]`,
	'o': `[oöOÖ]`, 'ö': `[oöOÖ]`,
}

// tolerantPattern turns a phrase into a regexp fragment that ignores case,
// Turkish diacritics and whitespace width.
func tolerantPattern(phrase string) string {
	var b strings.Builder
	for _, r := range utils.TurkishLower(strings.TrimSpace(phrase)) {
		switch {
		case r == ' ':
			b.WriteString(`\s+`)
		case letterClasses[r] != "":
			b.WriteString(letterClasses[r])
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// alternation joins phrases into a non-capturing group, longest first.
func alternation(phrases []string) string {
	sorted := append([]string(nil), phrases...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && len(sorted[j]) > len(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	parts := make([]string, 0, len(sorted))
	for _, p := range sorted {
		parts = append(parts, tolerantPattern(p))
	}
	return `(?:` + strings.Join(parts, "|") + `)`
}
