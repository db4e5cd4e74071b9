package utils

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCountUnit is assigned when a quantity is present but no unit was recognised.
const DefaultCountUnit = "adet"

// DefaultUnits is the closed unit vocabulary.
var DefaultUnits = []string{
	"yemek kaşığı", "tatlı kaşığı", "çay kaşığı", "kahve kaşığı",
	"su bardağı", "çay bardağı", "kahve fincanı",
	"kase", "kaşık", "bardak", "fincan",
	"kilogram", "kilo", "gram", "gr", "kg", "g",
	"mililitre", "litre", "ml", "lt",
	"adet", "tane", "dilim", "demet", "tutam", "avuç", "diş",
	"yaprak", "paket", "kutu", "dal", "parça",
}

// DefaultQualifiers are preparation participles moved from the name into the note.
var DefaultQualifiers = []string{
	"ince kıyılmış", "iri kıyılmış", "kıyılmış",
	"küp küp doğranmış", "küp doğranmış", "ince doğranmış", "doğranmış",
	"ince rendelenmiş", "rendelenmiş",
	"kabuğu soyulmuş", "soyulmuş",
	"haşlanmış", "buharda pişirilmiş", "fırınlanmış", "kavrulmuş",
	"ezilmiş", "püre haline getirilmiş", "çatalla ezilmiş",
	"çekirdekleri çıkarılmış", "çekirdeksiz",
	"dilimlenmiş", "ikiye bölünmüş", "dörde bölünmüş",
	"eritilmiş", "erimiş", "ufalanmış", "dövülmüş", "süzülmüş",
	"yıkanmış", "ıslatılmış", "oda sıcaklığında",
}

var (
	unitModifiers = []string{"tepeleme", "silme", "dolu"}

	vagueAmounts = []string{"bir miktar", "biraz", "azıcık", "isteğe göre", "yeteri kadar"}

	numberWords = map[string]string{
		"yarım":  "1/2",
		"çeyrek": "1/4",
		"bir":    "1",
		"iki":    "2",
		"üç":     "3",
		"dört":   "4",
		"beş":    "5",
		"altı":   "6",
		"yedi":   "7",
		"sekiz":  "8",
		"dokuz":  "9",
		"on":     "10",
	}

	unicodeFractions = strings.NewReplacer(
		"½", "1/2", "¼", "1/4", "¾", "3/4", "⅓", "1/3", "⅔", "2/3", "⅛", "1/8",
	)

	parenRe          = regexp.MustCompile(`\s*\(([^)]*)\)`)
	digitFractionRe  = regexp.MustCompile(`(\d)\s*([½¼¾⅓⅔⅛])`)
	quantityRe       = regexp.MustCompile(`^(\d+\s+\d+/\d+|\d+/\d+|\d+(?:[.,]\d+)?(?:\s*[-–]\s*\d+(?:[.,]\d+)?)?)`)
	rangeDashRe      = regexp.MustCompile(`\s*[-–]\s*`)
	leadingPunctRe   = regexp.MustCompile(`^[\s,.;:]+`)
	trailingPunctRe  = regexp.MustCompile(`[\s,.;:]+$`)
	spaceBeforePunct = regexp.MustCompile(`\s+([,;])`)
)

// ParsedIngredient is the result of parsing one raw ingredient line.
type ParsedIngredient struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Name     string `json:"name"`
	Note     string `json:"note"`
}

// IngredientParser turns free-text Turkish ingredient lines into quantity, unit, name and note.
// It is safe for concurrent use once built.
type IngredientParser struct {
	units      []string
	qualifiers [][]string
}

// NewIngredientParser builds a parser with the default vocabulary plus extra qualifiers.
func NewIngredientParser(extraQualifiers ...string) *IngredientParser {
	units := append([]string(nil), DefaultUnits...)
	sort.SliceStable(units, func(i, j int) bool {
		return utf8.RuneCountInString(units[i]) > utf8.RuneCountInString(units[j])
	})

	seen := make(map[string]bool)
	var qualifiers [][]string
	for _, q := range append(append([]string(nil), DefaultQualifiers...), extraQualifiers...) {
		q = CollapseSpaces(TurkishLower(q))
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		qualifiers = append(qualifiers, strings.Fields(q))
	}
	sort.SliceStable(qualifiers, func(i, j int) bool {
		return len(qualifiers[i]) > len(qualifiers[j])
	})

	return &IngredientParser{units: units, qualifiers: qualifiers}
}

var defaultParser = NewIngredientParser()

// ParseIngredient parses line with the default vocabulary.
func ParseIngredient(line string) ParsedIngredient {
	return defaultParser.Parse(line)
}

// Parse runs the normalisation pipeline on a single line. It never fails; an unusable
// line comes back with an empty Name.
func (p *IngredientParser) Parse(line string) ParsedIngredient {
	var notes []string
	rest := CollapseSpaces(line)

	// parenthesised clauses
	for _, m := range parenRe.FindAllStringSubmatch(rest, -1) {
		if inner := CollapseSpaces(m[1]); inner != "" {
			notes = append(notes, inner)
		}
	}
	rest = CollapseSpaces(parenRe.ReplaceAllString(rest, " "))
	rest = strings.NewReplacer("(", " ", ")", " ").Replace(rest)
	rest = TurkishLower(CollapseSpaces(rest))

	quantity, rest, vague := p.takeQuantity(rest)
	if vague != "" {
		notes = append(notes, vague)
	}

	var unit string
	if quantity != "" {
		var modifier string
		unit, modifier, rest = p.takeUnit(rest)
		if modifier != "" {
			notes = append(notes, modifier)
		}
		if unit == "" {
			unit = DefaultCountUnit
		}
	}

	rest, qualifiers := p.takeQualifiers(rest)
	notes = append(notes, qualifiers...)

	name := rest
	if idx := strings.Index(rest, ","); idx >= 0 {
		name = rest[:idx]
		if extra := CollapseSpaces(trailingPunctRe.ReplaceAllString(leadingPunctRe.ReplaceAllString(rest[idx+1:], ""), "")); extra != "" {
			notes = append(notes, extra)
		}
	}
	name = CollapseSpaces(trailingPunctRe.ReplaceAllString(leadingPunctRe.ReplaceAllString(name, ""), ""))

	return ParsedIngredient{
		Quantity: quantity,
		Unit:     unit,
		Name:     UpperFirst(name),
		Note:     strings.Join(notes, ", "),
	}
}

func (p *IngredientParser) takeQuantity(s string) (quantity, rest, vague string) {
	for _, v := range vagueAmounts {
		if hasWordPrefix(s, v) {
			return "", strings.TrimSpace(s[len(v):]), v
		}
	}

	s = digitFractionRe.ReplaceAllString(s, "$1 $2")
	s = unicodeFractions.Replace(s)

	if m := quantityRe.FindString(s); m != "" {
		quantity = normalizeQuantity(m)
		rest = strings.TrimSpace(s[len(m):])
	} else {
		fields := strings.SplitN(s, " ", 2)
		word, ok := numberWords[fields[0]]
		if !ok {
			return "", s, ""
		}
		quantity = word
		if len(fields) > 1 {
			rest = strings.TrimSpace(fields[1])
		}
	}

	if hasWordPrefix(rest, "buçuk") {
		rest = strings.TrimSpace(rest[len("buçuk"):])
		if !strings.Contains(quantity, "/") && !strings.Contains(quantity, "-") {
			quantity += " 1/2"
		}
	}
	return quantity, rest, ""
}

func normalizeQuantity(q string) string {
	q = CollapseSpaces(q)
	q = rangeDashRe.ReplaceAllString(q, "-")
	return strings.ReplaceAll(q, ",", ".")
}

func (p *IngredientParser) takeUnit(s string) (unit, modifier, rest string) {
	for _, m := range unitModifiers {
		if hasWordPrefix(s, m) {
			candidate := strings.TrimSpace(s[len(m):])
			if u, r := p.matchUnit(candidate); u != "" {
				return u, m, r
			}
		}
	}
	u, r := p.matchUnit(s)
	return u, "", r
}

func (p *IngredientParser) matchUnit(s string) (string, string) {
	for _, u := range p.units {
		if hasWordPrefix(s, u) {
			rest := strings.TrimPrefix(s[len(u):], ".")
			return u, strings.TrimSpace(rest)
		}
	}
	return "", s
}

func (p *IngredientParser) takeQualifiers(s string) (string, []string) {
	words := strings.Fields(s)
	var kept, found []string

	for i := 0; i < len(words); {
		matched := 0
		for _, q := range p.qualifiers {
			if matchWords(words[i:], q) {
				matched = len(q)
				found = append(found, strings.Join(q, " "))
				break
			}
		}
		if matched == 0 {
			kept = append(kept, words[i])
			i++
			continue
		}
		last := words[i+matched-1]
		if strings.HasSuffix(last, ",") {
			kept = append(kept, ",")
		}
		i += matched
	}

	joined := spaceBeforePunct.ReplaceAllString(strings.Join(kept, " "), "$1")
	return joined, found
}

func matchWords(words, qualifier []string) bool {
	if len(words) < len(qualifier) {
		return false
	}
	for i, w := range qualifier {
		if strings.TrimRight(words[i], ",;.") != w {
			return false
		}
	}
	return true
}

// hasWordPrefix reports whether s starts with prefix followed by a non-letter or end of string.
func hasWordPrefix(s, prefix string) bool {
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(s[len(prefix):])
	return next == utf8.RuneError || !unicode.IsLetter(next)
}
