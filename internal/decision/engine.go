package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"choonbot/internal/oracle"
	"choonbot/internal/pkg/jsonutil"
	"choonbot/internal/prompt"
)

// Engine assembles the decision prompt and performs exactly one oracle call
// per cycle. Retry policy, if any, belongs to the caller.
type Engine struct {
	provider  oracle.Provider
	prompts   *prompt.Registry
	maxTokens int
}

func NewEngine(provider oracle.Provider, prompts *prompt.Registry, maxTokens int) *Engine {
	return &Engine{provider: provider, prompts: prompts, maxTokens: maxTokens}
}

// Decide asks the oracle for a buy/sell/hold call with sizing. The reply must
// pass JSON extraction, schema validation and the action/percentage
// invariant; anything else returns ErrInvalid and no decision is produced.
func (e *Engine) Decide(ctx context.Context, input Input) (Decision, error) {
	user, err := buildUserPrompt(input)
	if err != nil {
		return Decision{}, fmt.Errorf("assembling decision prompt: %w", err)
	}
	req := oracle.Request{
		System:    e.prompts.DecisionSystem(),
		User:      user,
		MaxTokens: e.maxTokens,
		Purpose:   "decision",
		Schema: &oracle.SchemaSpec{
			Name:   schemaName,
			Schema: responseSchema,
		},
	}
	if input.Chart != nil && input.Chart.DataURI != "" {
		req.Images = []oracle.ImagePayload{*input.Chart}
	}

	raw, err := e.provider.Complete(ctx, req)
	if err != nil {
		return Decision{}, err
	}
	extracted, ok := jsonutil.ExtractObject(raw)
	if !ok {
		return Decision{}, fmt.Errorf("%w: no json object in reply: %s", ErrInvalid, snippet(raw))
	}
	return parseReply(extracted)
}

// buildUserPrompt serialises the cycle's context losslessly: every feature
// column and every surviving row goes in. Absent sentiment is marked
// explicitly rather than defaulted.
func buildUserPrompt(input Input) (string, error) {
	balances, err := json.Marshal(input.Balances)
	if err != nil {
		return "", err
	}
	book, err := json.Marshal(input.OrderBook)
	if err != nil {
		return "", err
	}
	daily, err := json.Marshal(input.Daily)
	if err != nil {
		return "", err
	}
	hourly, err := json.Marshal(input.Hourly)
	if err != nil {
		return "", err
	}
	sentiment := "unavailable this cycle"
	if input.Sentiment != nil {
		raw, err := json.Marshal(input.Sentiment)
		if err != nil {
			return "", err
		}
		sentiment = string(raw)
	}
	reflection := strings.TrimSpace(input.Reflection)
	if reflection == "" {
		reflection = "(none)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current investment status: %s\n", balances)
	fmt.Fprintf(&b, "Orderbook: %s\n", book)
	fmt.Fprintf(&b, "Daily OHLCV with indicators (%d rows): %s\n", len(input.Daily), daily)
	fmt.Fprintf(&b, "Hourly OHLCV with indicators (%d rows): %s\n", len(input.Hourly), hourly)
	fmt.Fprintf(&b, "Fear and Greed Index: %s\n", sentiment)
	fmt.Fprintf(&b, "Reflection on recent trading:\n%s\n", reflection)
	return b.String(), nil
}
