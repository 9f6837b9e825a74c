// Package render exports a generation record as Markdown or HTML.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/boundarycoach/boundary-api/internal/app/boundary"
	"github.com/boundarycoach/boundary-api/internal/domain"
)

// Markdown lays a record out the way the coaching response is structured.
func Markdown(rec *domain.GenerationRecord) string {
	var b strings.Builder

	b.WriteString("# Boundary Coach\n\n")
	fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(strings.TrimSpace(rec.SituationInput), "\n", "\n> "))
	if !rec.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "_%s_\n\n", rec.CreatedAt.UTC().Format("January 2, 2006 15:04 MST"))
	}

	qt := rec.Response.QuickTake
	if qt.Validation != "" || qt.Insight != "" {
		b.WriteString("## Quick Take\n\n")
		for _, p := range []string{qt.Validation, qt.Insight} {
			if p != "" {
				b.WriteString(p + "\n\n")
			}
		}
	}

	b.WriteString("## Your 3 Boundary Options\n\n")
	for _, o := range rec.Response.Options {
		emoji, title := o.Emoji, o.Title
		// older records may predate stored headings
		if emoji == "" {
			emoji = boundary.Emoji(o.Level)
		}
		if title == "" {
			title = boundary.Title(o.Level)
		}
		fmt.Fprintf(&b, "### %s %s\n\n", emoji, title)
		fmt.Fprintf(&b, "**Use when:** %s\n\n", o.UseWhen)
		fmt.Fprintf(&b, "**Script:** \"%s\"\n\n", o.Script)
		fmt.Fprintf(&b, "**Why it works:** %s\n\n", o.WhyItWorks)
	}

	if len(rec.Response.VisualMoodLighteners) > 0 {
		b.WriteString("## Visual Mood Lighteners\n\n")
		for _, v := range rec.Response.VisualMoodLighteners {
			if v.ImageURL != "" {
				fmt.Fprintf(&b, "![%s](<%s>)\n\n", escapeAlt(v.Prompt), v.ImageURL)
			}
			fmt.Fprintf(&b, "_%s_\n\n", v.Prompt)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// HTML renders the Markdown export. Raw HTML in user text is not passed
// through.
func HTML(rec *domain.GenerationRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(rec)), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func escapeAlt(s string) string {
	r := strings.NewReplacer("[", `\[`, "]", `\]`, "\n", " ")
	return r.Replace(s)
}
