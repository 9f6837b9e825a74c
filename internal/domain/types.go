package domain

import "time"

type GenerationID string
type UserID string

// Level identifies one of the three boundary options.
type Level string

const (
	LevelSoft  Level = "soft"  // Relationship preserving
	LevelClear Level = "clear" // Professional & direct
	LevelWall  Level = "wall"  // Non-negotiable
)

// Levels is the fixed presentation order of boundary options.
var Levels = [3]Level{LevelSoft, LevelClear, LevelWall}

// User is the authenticated caller of a request.
type User struct {
	ID    UserID
	Email string
}

type Timestamp = time.Time
