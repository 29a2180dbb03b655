// Package generate defines the content-generation contract the orchestrator
// calls for candidate output. The pipeline treats the generator as an opaque
// collaborator: it hands over an input plus metadata fields and receives text
// with optional structured fields back. Nothing downstream depends on how
// the text was produced.
package generate

import "context"

// Candidate is one proposed output awaiting consent.
type Candidate struct {
	Text   string                 `json:"text"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// Service produces a candidate for the given input.
type Service interface {
	Generate(ctx context.Context, input string, meta map[string]interface{}) (*Candidate, error)
}

// Func adapts a plain function to Service, mainly for tests and embedders
// with their own generation stack.
type Func func(ctx context.Context, input string, meta map[string]interface{}) (*Candidate, error)

func (f Func) Generate(ctx context.Context, input string, meta map[string]interface{}) (*Candidate, error) {
	return f(ctx, input, meta)
}

// Static returns a generator that always yields the same text. Used by the
// CLI dry-run path and tests.
func Static(text string) Service {
	return Func(func(context.Context, string, map[string]interface{}) (*Candidate, error) {
		return &Candidate{Text: text}, nil
	})
}
