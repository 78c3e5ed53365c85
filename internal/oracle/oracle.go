// Package oracle abstracts the external reasoning model behind a single
// capability: submit a prompt, get text back. Components depend on the
// Provider interface so tests can substitute canned responses.
package oracle

import (
	"context"
	"errors"
)

// ErrUnavailable marks transport-level oracle failures: unreachable endpoint,
// exhausted retries, or a reply with no content. Cycles abort (or degrade,
// where the caller explicitly tolerates it) on this error; they never trade.
var ErrUnavailable = errors.New("reasoning oracle unavailable")

// ImagePayload is an optional visual attachment, already data-URI encoded.
type ImagePayload struct {
	DataURI     string
	Description string
}

// SchemaSpec asks the provider for strict schema-constrained JSON output.
type SchemaSpec struct {
	Name   string
	Schema map[string]any
}

// Request is one round-trip to the model.
type Request struct {
	System    string
	User      string
	Images    []ImagePayload
	Schema    *SchemaSpec
	MaxTokens int
	Purpose   string // tag for the oracle dump log
}

// Provider submits one request and returns the raw text reply.
type Provider interface {
	Model() string
	Complete(ctx context.Context, req Request) (string, error)
}
