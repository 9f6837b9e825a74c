package domain

import "errors"

var (
	ErrInvalidInput    = errors.New("user input is required")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrGeneration      = errors.New("failed to generate boundary response")
	ErrImageGeneration = errors.New("failed to generate image")
	ErrNotFound        = errors.New("generation not found")
)
