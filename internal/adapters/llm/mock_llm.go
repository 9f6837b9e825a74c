package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM answers every request with a canned, well-formed coaching
// response so the whole pipeline can run without a model.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

const mockResponse = `## Quick Take

It makes sense that %s feels heavy. Wanting your time and energy respected is reasonable.

Saying no is not rejecting the person, it is telling them where you end and they begin.

## Your 3 Boundary Options

### 🟢 The Soft No (Relationship Preserving)

**Use when:** You value the relationship and the request is occasional.

**Script:** "I really appreciate you asking, but I can't this time."

**Why it works:** It acknowledges the other person while keeping your answer clear.

### 🟡 The Clear No (Professional & Direct)

**Use when:** Hints have not worked and you need to be understood.

**Script:** "No, I'm not able to do that. Thanks for understanding."

**Why it works:** A short, direct answer leaves no room for negotiation.

### 🔴 The Wall (Non-Negotiable)

**Use when:** The request keeps coming back after you have already said no.

**Script:** "I've already answered this. My answer is no and it won't change."

**Why it works:** Naming the repetition makes the boundary and its consequence explicit.

## Visual Mood Lighteners

"A calm turtle wearing a tiny crown, politely declining a party invitation."

"A cat in a business suit holding up a stop sign at a crosswalk of paperwork."

"A lighthouse glowing peacefully while stormy requests crash against the rocks."
`

// Complete implements domain.TextGenerator.
func (m *MockLLM) Complete(ctx context.Context, _ string, userMessage string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	situation := strings.TrimSpace(strings.TrimPrefix(userMessage, "Please help me set a boundary in this situation:"))
	if situation == "" {
		situation = "this situation"
	}
	return fmt.Sprintf(mockResponse, fmt.Sprintf("%q", situation)), nil
}
