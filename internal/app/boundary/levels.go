package boundary

import "github.com/boundarycoach/boundary-api/internal/domain"

// levelInfo holds the fixed metadata of one boundary level.
type levelInfo struct {
	Emoji string
	Name  string // heading text after the emoji, e.g. "The Soft No"
	Title string

	FallbackUseWhen    string
	FallbackScript     string
	FallbackWhyItWorks string
}

var levels = map[domain.Level]levelInfo{
	domain.LevelSoft: {
		Emoji:              "🟢",
		Name:               "The Soft No",
		Title:              "The Soft No (Relationship Preserving)",
		FallbackUseWhen:    "When you want to maintain a warm relationship but still protect your time.",
		FallbackScript:     "I appreciate you thinking of me, but I won't be able to take that on right now.",
		FallbackWhyItWorks: "This approach maintains relationships while setting clear boundaries.",
	},
	domain.LevelClear: {
		Emoji:              "🟡",
		Name:               "The Clear No",
		Title:              "The Clear No (Professional & Direct)",
		FallbackUseWhen:    "For professional settings or when your soft no hasn't been heard.",
		FallbackScript:     "I'm not able to do that. Please respect that this is my decision.",
		FallbackWhyItWorks: "Direct communication prevents misunderstandings and establishes clear expectations.",
	},
	domain.LevelWall: {
		Emoji:              "🔴",
		Name:               "The Wall",
		Title:              "The Wall (Non-Negotiable)",
		FallbackUseWhen:    "When your boundaries have been repeatedly crossed and the situation is impacting your well-being.",
		FallbackScript:     "This conversation is over. My answer is no, and it is not going to change.",
		FallbackWhyItWorks: "Sometimes firm boundaries are necessary to protect your well-being and establish respect.",
	},
}

// Title returns the fixed display title of a level.
func Title(l domain.Level) string {
	return levels[l].Title
}

// Emoji returns the heading marker of a level.
func Emoji(l domain.Level) string {
	return levels[l].Emoji
}

// FallbackOption is what a level shows when its fields could not be extracted.
func FallbackOption(l domain.Level) domain.BoundaryOption {
	info := levels[l]
	return domain.BoundaryOption{
		Level:      l,
		Emoji:      info.Emoji,
		Title:      info.Title,
		UseWhen:    info.FallbackUseWhen,
		Script:     info.FallbackScript,
		WhyItWorks: info.FallbackWhyItWorks,
	}
}
