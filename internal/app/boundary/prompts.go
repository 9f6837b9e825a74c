package boundary

import (
	"regexp"
	"strings"
)

// PromptCount is the number of image prompts every completion yields.
const PromptCount = 3

// FillerPrompt pads the prompt list when the completion has too few.
const FillerPrompt = "A serene, abstract representation of personal boundaries and self-care."

var (
	// Runs to the next level-2 heading or the end of text.
	visualSectionRe = regexp.MustCompile(`(?s)##[ \t]+[^\n]*?Visual Mood Lighteners[^\n]*(.*?)(?:\n##[ \t]|\z)`)
	// straight and curly quotes pair only with their own kind
	quotedRe = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)
)

// ExtractPrompts returns exactly PromptCount image prompts: the quoted strings
// of the "Visual Mood Lighteners" section in order, truncated or padded with
// FillerPrompt.
func ExtractPrompts(raw string) []string {
	text := normalize(raw)
	prompts := make([]string, 0, PromptCount)

	if m := visualSectionRe.FindStringSubmatch(text); m != nil {
		for _, q := range quotedRe.FindAllStringSubmatch(m[1], -1) {
			p := strings.TrimSpace(q[1] + q[2])
			if p == "" {
				continue
			}
			prompts = append(prompts, p)
			if len(prompts) == PromptCount {
				break
			}
		}
	}

	for len(prompts) < PromptCount {
		prompts = append(prompts, FillerPrompt)
	}
	return prompts
}
