package llm

import (
	"context"
	"errors"
)

var ErrEmptyResponse = errors.New("empty response from model")

// Request is the only call shape the hosted model sees: a model identifier,
// a free-text prompt and, optionally, the JSON shape the reply should take.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature *float64
	Schema      *Schema
}

type Response struct {
	Text      string
	ModelUsed string
}

type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

func Temperature(t float64) *float64 {
	return &t
}
