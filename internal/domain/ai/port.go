package ai

import "context"

// Mode selects the response format requested from the completion service.
type Mode string

const (
	// ModeJSON asks the service for a single structured JSON object.
	ModeJSON Mode = "json"
	// ModeText asks for free-form text (Markdown allowed).
	ModeText Mode = "text"
)

// Client is the port to the text-completion service.
type Client interface {
	Generate(ctx context.Context, instruction string, mode Mode, temperature float32) (string, error)
}
