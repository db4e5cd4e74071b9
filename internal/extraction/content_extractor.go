package extraction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/recipemigration/pkg/utils"
)

// ExtractedContent holds the raw segments found in a legacy post.
type ExtractedContent struct {
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	ExpertNote   string   `json:"expert_note,omitempty"`
	ExpertName   string   `json:"expert_name,omitempty"`
	ExpertTitle  string   `json:"expert_title,omitempty"`
	VideoURL     string   `json:"video_url,omitempty"`
	SpecialNotes string   `json:"special_notes,omitempty"`
}

var (
	bulletRe     = regexp.MustCompile(`^\s*(?:[-•*–·▪►✓✔]|\d+[.)])\s+`)
	blockBreakRe = regexp.MustCompile(`(?i)<br\s*/?>|</(?:p|li|div|h[1-6]|tr|ul|ol)>`)
	nextHeadRe   = regexp.MustCompile(`(?i)<h[1-6][\s>]|<hr[\s/>]`)

	videoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:https?:)?//(?:www\.)?youtube(?:-nocookie)?\.com/embed/([\w-]{11})`),
		regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?(?:[^"'\s<>]*?&(?:amp;)?)?v=([\w-]{11})`),
		regexp.MustCompile(`(?:https?://)?youtu\.be/([\w-]{11})`),
	}
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// ContentExtractor segments legacy HTML into ingredient, instruction and note sections.
type ContentExtractor struct {
	ingredientHeadRe  *regexp.Regexp
	preparationHeadRe *regexp.Regexp
	expertRe          *regexp.Regexp
	terminatorRe      *regexp.Regexp
	specialNoteRe     *regexp.Regexp
}

// NewContentExtractor compiles the heading and note tables in rules.
func NewContentExtractor(rules *Rules) *ContentExtractor {
	if rules == nil {
		rules = DefaultRules()
	}

	titles := make([]string, 0, len(rules.ExpertTitles))
	for _, t := range rules.ExpertTitles {
		titles = append(titles, strings.ReplaceAll(regexp.QuoteMeta(t), " ", `\s*`))
	}
	name := `\p{Lu}(?:\p{Ll}+|\.)(?:\s+\p{Lu}(?:\p{Ll}+|\.)){0,3}`
	possessive := `['’‘´]?n?[ıiuü]n`
	expert := `(?:(` + strings.Join(titles, "|") + `)\s*)?(` + name + `)` + possessive + `\s+(?i:notu)\s*:`

	return &ContentExtractor{
		ingredientHeadRe:  headingRegexp(rules.IngredientHeadings),
		preparationHeadRe: headingRegexp(rules.PreparationHeadings),
		expertRe:          regexp.MustCompile(expert),
		terminatorRe:      regexp.MustCompile(`(?i)` + alternation(rules.NoteTerminators)),
		specialNoteRe:     regexp.MustCompile(`(?i)^` + alternation(rules.SpecialNotePrefixes) + `\s*:`),
	}
}

// headingRegexp matches a heading word wrapped in an h-tag, in bold, or alone on its line.
func headingRegexp(words []string) *regexp.Regexp {
	w := alternation(words) + `\s*:?\s*`
	tagged := `<h[1-6][^>]*>\s*(?:<[^>]+>\s*)*` + w + `(?:</[^>]+>\s*)*`
	bold := `<(?:strong|b)(?:\s[^>]*)?>\s*` + w + `</(?:strong|b)>`
	bare := `(?:^|<br\s*/?>|<p[^>]*>)[ \t]*` + w + `(?:$|<br\s*/?>|</p>)`
	inline := `(?:^|<br\s*/?>|<p[^>]*>)[ \t]*` + alternation(words) + `[ \t]*:`
	return regexp.MustCompile(`(?im)` + tagged + `|` + bold + `|` + bare + `|` + inline)
}

// Extract segments html. It never fails: sections it cannot find come back empty.
func (e *ContentExtractor) Extract(html, title string) (out ExtractedContent) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("title", title).Str("panic", fmt.Sprint(r)).Msg("content extraction aborted")
			out = ExtractedContent{}
		}
	}()

	out.VideoURL = extractVideoURL(html)

	expertStart := -1
	if m := e.expertRe.FindStringSubmatchIndex(html); m != nil {
		expertStart = m[0]
		if m[2] >= 0 {
			out.ExpertTitle = strings.TrimSpace(html[m[2]:m[3]])
		}
		out.ExpertName = utils.CollapseSpaces(html[m[4]:m[5]])
		out.ExpertNote = e.noteBody(html[m[1]:])
	}

	ingStart, ingEnd := -1, -1
	if m := e.ingredientHeadRe.FindStringIndex(html); m != nil {
		ingStart, ingEnd = m[0], m[1]
	}

	searchFrom := 0
	if ingEnd >= 0 {
		searchFrom = ingEnd
	}
	prepStart, prepEnd := -1, -1
	if m := e.preparationHeadRe.FindStringIndex(html[searchFrom:]); m != nil {
		prepStart, prepEnd = searchFrom+m[0], searchFrom+m[1]
	}

	if ingStart >= 0 {
		regionEnd := len(html)
		if prepStart >= 0 {
			regionEnd = prepStart
		} else if expertStart > ingEnd {
			regionEnd = expertStart
		}
		out.Ingredients = e.sectionLines(html[ingEnd:regionEnd])
	}

	if prepStart >= 0 {
		regionEnd := len(html)
		if expertStart > prepEnd {
			regionEnd = expertStart
		}
		out.Instructions = e.sectionLines(html[prepEnd:regionEnd])
	}

	out.SpecialNotes = strings.Join(e.specialNotes(html), "\n")
	return out
}

// sectionLines applies the bullet, list item, plain line fallback chain to a region.
func (e *ContentExtractor) sectionLines(region string) []string {
	lines := textLines(region)

	var bullets []string
	for _, line := range lines {
		if loc := bulletRe.FindStringIndex(line); loc != nil {
			if item := strings.TrimSpace(line[loc[1]:]); item != "" && !e.isSpecialNote(item) {
				bullets = append(bullets, item)
			}
		}
	}
	if len(bullets) > 0 {
		return bullets
	}

	if items := listItems(region); len(items) > 0 {
		var kept []string
		for _, item := range items {
			if !e.isSpecialNote(item) {
				kept = append(kept, item)
			}
		}
		return kept
	}

	var plain []string
	for _, line := range lines {
		if !e.isSpecialNote(line) {
			plain = append(plain, line)
		}
	}
	return plain
}

func (e *ContentExtractor) isSpecialNote(line string) bool {
	return e.specialNoteRe.MatchString(strings.TrimSpace(line))
}

func (e *ContentExtractor) specialNotes(html string) []string {
	var notes []string
	seen := make(map[string]bool)
	for _, line := range textLines(html) {
		line = strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
		if e.isSpecialNote(line) && !seen[line] {
			seen[line] = true
			notes = append(notes, line)
		}
	}
	return notes
}

func (e *ContentExtractor) noteBody(rest string) string {
	end := len(rest)
	if loc := nextHeadRe.FindStringIndex(rest); loc != nil && loc[0] < end {
		end = loc[0]
	}
	if loc := e.terminatorRe.FindStringIndex(rest); loc != nil && loc[0] < end {
		end = loc[0]
	}
	return utils.CollapseSpaces(StripTags(rest[:end]))
}

func extractVideoURL(html string) string {
	best, id := -1, ""
	for _, re := range videoPatterns {
		if m := re.FindStringSubmatchIndex(html); m != nil && (best < 0 || m[0] < best) {
			best, id = m[0], html[m[2]:m[3]]
		}
	}
	if id == "" {
		return ""
	}
	return watchURLPrefix + id
}

// StripTags removes markup and decodes entities, keeping block boundaries as spaces.
func StripTags(html string) string {
	return strings.Join(textLines(html), " ")
}

// textLines converts an HTML fragment into trimmed, non-empty text lines.
func textLines(html string) []string {
	withBreaks := blockBreakRe.ReplaceAllString(html, "$0\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(withBreaks))
	if err != nil {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = utils.CollapseSpaces(strings.ReplaceAll(line, "\u00a0", " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func listItems(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var items []string
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		if text := utils.CollapseSpaces(s.Text()); text != "" {
			items = append(items, text)
		}
	})
	return items
}
