package domain

import "context"

// TextGenerator defines how the core application interacts with a text model.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ImageGenerator produces one image reference (URL or data URI) per prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationStore defines generation record persistence.
// Lookups are scoped to the owner; a record of another user is ErrNotFound.
type GenerationStore interface {
	InsertGeneration(ctx context.Context, rec *GenerationRecord) (GenerationID, error)
	GetGeneration(ctx context.Context, userID UserID, id GenerationID) (*GenerationRecord, error)
	ListGenerationsByUser(ctx context.Context, userID UserID, limit int) ([]*GenerationRecord, error)
	DeleteGeneration(ctx context.Context, userID UserID, id GenerationID) error
}

// Authenticator resolves the current user of an inbound credential.
// A nil user with a nil error means nobody is signed in.
type Authenticator interface {
	CurrentUser(ctx context.Context, credential string) (*User, error)
}
