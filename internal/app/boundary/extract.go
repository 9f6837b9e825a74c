package boundary

import (
	"regexp"
	"strings"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

// Pass reports which field pattern produced the options.
type Pass string

const (
	PassStrict  Pass = "strict"  // quoted scripts, at least one level matched
	PassLenient Pass = "lenient" // strict matched nothing, unquoted retry used
)

// Extraction is the structured part of a completion.
type Extraction struct {
	QuickTake domain.QuickTake
	Options   [3]domain.BoundaryOption
	Pass      Pass
	// Matched[i] is true when Options[i] came from the completion rather
	// than from the level's fallback text.
	Matched [3]bool
}

const paragraph = `[ \t]*[^#\s][^\n]*(?:\n[ \t]*[^#\s][^\n]*)*?`

var (
	// Two paragraphs after the heading, then a blank line and the next heading.
	// A paragraph is a run of non-blank lines that are not headings.
	quickTakeRe = regexp.MustCompile(`##[ \t]+[^\n]*?Quick Take[^\n]*\n[ \t]*\n(` + paragraph + `)\n[ \t]*\n(` + paragraph + `)\n[ \t]*\n##`)

	headingRe = regexp.MustCompile(`(?m)^(#{1,6})[ \t]`)

	// Labels may be bolded either side of the colon: "**Use when:**", "**Use when**:".
	strictFieldsRe  = regexp.MustCompile(`(?is)Use when[*_]*:[*_]*\s*(.*?)\n.*?Script[*_]*:[*_]*\s*[*_]*["“”]([^"“”]*?)["“”].*?Why it works[*_]*:[*_]*\s*(.*)`)
	lenientFieldsRe = regexp.MustCompile(`(?is)Use when[*_]*:[*_]*\s*(.*?)\n.*?Script[*_]*:[*_]*\s*(.*?)\n.*?Why it works[*_]*:[*_]*\s*(.*)`)

	trailingRuleRe = regexp.MustCompile(`\n[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)
)

// Extract parses a raw completion into the quick take and the three options.
// It never fails: anything that does not match falls back to empty text
// (quick take) or the level's canned text (options).
//
// Options are matched with the quoted-script pattern first. Only when no
// level at all matches is every level retried with the unquoted pattern; a
// partial strict match is final.
func Extract(raw string) Extraction {
	text := normalize(raw)

	var ex Extraction
	ex.QuickTake = extractQuickTake(text)

	fields, matched := matchLevels(text, strictHeading, strictFieldsRe)
	ex.Pass = PassStrict
	if !anyTrue(matched) {
		fields, matched = matchLevels(text, lenientHeading, lenientFieldsRe)
		ex.Pass = PassLenient
	}

	for i, l := range domain.Levels {
		if !matched[i] {
			ex.Options[i] = FallbackOption(l)
			continue
		}
		ex.Options[i] = domain.BoundaryOption{
			Level:      l,
			Emoji:      Emoji(l),
			Title:      Title(l),
			UseWhen:    fields[i].useWhen,
			Script:     fields[i].script,
			WhyItWorks: fields[i].whyItWorks,
		}
	}
	ex.Matched = matched

	return ex
}

func extractQuickTake(text string) domain.QuickTake {
	m := quickTakeRe.FindStringSubmatch(text)
	if len(m) < 3 {
		return domain.QuickTake{}
	}
	return domain.QuickTake{
		Validation: strings.TrimSpace(m[1]),
		Insight:    strings.TrimSpace(m[2]),
	}
}

type optionFields struct {
	useWhen    string
	script     string
	whyItWorks string
}

// headingMatcher builds the heading pattern that opens a level's section.
type headingMatcher func(info levelInfo) *regexp.Regexp

var (
	strictHeadings  = compileHeadings(strictHeadingPattern)
	lenientHeadings = compileHeadings(lenientHeadingPattern)
)

func strictHeading(info levelInfo) *regexp.Regexp  { return strictHeadings[info.Emoji] }
func lenientHeading(info levelInfo) *regexp.Regexp { return lenientHeadings[info.Emoji] }

// "### 🟢 The Soft No"
func strictHeadingPattern(info levelInfo) string {
	return `(?m)^#{2,4}[ \t]*` + regexp.QuoteMeta(info.Emoji) + `[ \t]*` + regexp.QuoteMeta(info.Name)
}

// any heading line carrying the emoji or the level name
func lenientHeadingPattern(info levelInfo) string {
	return `(?mi)^#{2,4}[^\n]*(?:` + regexp.QuoteMeta(info.Emoji) + `|` + regexp.QuoteMeta(info.Name) + `)`
}

func compileHeadings(pattern func(levelInfo) string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(levels))
	for _, info := range levels {
		out[info.Emoji] = regexp.MustCompile(pattern(info))
	}
	return out
}

func matchLevels(text string, heading headingMatcher, fieldsRe *regexp.Regexp) ([3]optionFields, [3]bool) {
	var (
		fields  [3]optionFields
		matched [3]bool
	)
	for i, l := range domain.Levels {
		body, ok := section(text, heading(levels[l]))
		if !ok {
			continue
		}
		m := fieldsRe.FindStringSubmatch(body)
		if len(m) < 4 {
			continue
		}
		f := optionFields{
			useWhen:    cleanValue(m[1]),
			script:     strings.Trim(cleanValue(m[2]), `"“”`),
			whyItWorks: cleanValue(m[3]),
		}
		if f.useWhen == "" || f.script == "" || f.whyItWorks == "" {
			continue
		}
		fields[i] = f
		matched[i] = true
	}
	return fields, matched
}

// section returns the text after the first heading matched by re, up to the
// next heading of the same or a higher level, or the end of text.
func section(text string, re *regexp.Regexp) (string, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	depth := strings.IndexFunc(text[loc[0]:], func(r rune) bool { return r != '#' })

	start := loc[1]
	if nl := strings.IndexByte(text[start:], '\n'); nl >= 0 {
		start += nl + 1
	} else {
		return "", true
	}

	rest := text[start:]
	for _, h := range headingRe.FindAllStringSubmatchIndex(rest, -1) {
		if h[3]-h[2] <= depth {
			return rest[:h[0]], true
		}
	}
	return rest, true
}

func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = trailingRuleRe.ReplaceAllString(s, "")
	s = strings.TrimLeft(s, "*_ \t")
	return strings.TrimSpace(s)
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func anyTrue(bs [3]bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}
