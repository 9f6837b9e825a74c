package domain

// QuickTake is the validating preamble before the boundary options.
type QuickTake struct {
	Validation string `json:"validation"`
	Insight    string `json:"insight"`
}

// BoundaryOption is one leveled script the user can use to say no.
type BoundaryOption struct {
	Level      Level  `json:"level"`
	Emoji      string `json:"emoji"`
	Title      string `json:"title"`
	UseWhen    string `json:"useWhen"`
	Script     string `json:"script"`
	WhyItWorks string `json:"whyItWorks"`
}

// VisualMoodLightener pairs an image prompt with the generated image.
// ImageURL is empty when generation failed for that prompt.
type VisualMoodLightener struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"imageUrl"`
}

// BoundaryResponse is the structured content extracted from one completion.
type BoundaryResponse struct {
	QuickTake            QuickTake             `json:"quickTake"`
	Options              [3]BoundaryOption     `json:"options"`
	VisualMoodLighteners []VisualMoodLightener `json:"visualMoodLighteners"`
}

// GenerationRecord is what gets persisted per request.
// ID is empty until the record has been stored.
type GenerationRecord struct {
	ID             GenerationID
	UserID         UserID
	SituationInput string
	Response       BoundaryResponse
	CreatedAt      Timestamp
}
