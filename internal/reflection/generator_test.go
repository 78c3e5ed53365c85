package reflection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"choonbot/internal/ledger"
	"choonbot/internal/oracle"
	"choonbot/internal/prompt"
)

type stubProvider struct {
	reply   string
	err     error
	lastReq oracle.Request
}

func (s *stubProvider) Model() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, req oracle.Request) (string, error) {
	s.lastReq = req
	return s.reply, s.err
}

func history() []ledger.TradeRecord {
	return []ledger.TradeRecord{
		{Decision: "sell", Percentage: 20, KRWBalance: 1_100_000},
		{Decision: "buy", Percentage: 30, KRWBalance: 1_000_000},
	}
}

func TestGenerate(t *testing.T) {
	prompts := prompt.NewRegistry("")

	t.Run("returns the narrative verbatim", func(t *testing.T) {
		provider := &stubProvider{reply: "The recent sell locked in gains; keep position sizes modest."}
		gen := NewGenerator(provider, prompts, 7)

		text, err := gen.Generate(context.Background(), history(), MarketSnapshot{})
		assert.NoError(t, err)
		assert.Equal(t, provider.reply, text)
		assert.Equal(t, "reflection", provider.lastReq.Purpose)
	})

	t.Run("prompt carries history and performance", func(t *testing.T) {
		provider := &stubProvider{reply: "ok"}
		gen := NewGenerator(provider, prompts, 7)

		_, err := gen.Generate(context.Background(), history(), MarketSnapshot{})
		assert.NoError(t, err)
		assert.Contains(t, provider.lastReq.User, `"decision":"sell"`)
		// (1,100,000 - 1,000,000) / 1,000,000 = +10.00%
		assert.Contains(t, provider.lastReq.User, "10.00%")
		assert.Contains(t, provider.lastReq.User, "250 words")
	})

	t.Run("transport failure propagates", func(t *testing.T) {
		provider := &stubProvider{err: oracle.ErrUnavailable}
		gen := NewGenerator(provider, prompts, 7)

		_, err := gen.Generate(context.Background(), history(), MarketSnapshot{})
		assert.ErrorIs(t, err, oracle.ErrUnavailable)
	})

	t.Run("blank reply is unavailable", func(t *testing.T) {
		provider := &stubProvider{reply: "   \n"}
		gen := NewGenerator(provider, prompts, 7)

		_, err := gen.Generate(context.Background(), history(), MarketSnapshot{})
		assert.ErrorIs(t, err, oracle.ErrUnavailable)
	})

	t.Run("zero basis propagates", func(t *testing.T) {
		provider := &stubProvider{reply: "unused"}
		gen := NewGenerator(provider, prompts, 7)

		records := []ledger.TradeRecord{
			{Decision: "hold", KRWBalance: 500_000},
			{Decision: "hold", KRWBalance: 0, BTCBalance: 0},
		}
		_, err := gen.Generate(context.Background(), records, MarketSnapshot{})
		assert.ErrorIs(t, err, ledger.ErrZeroBasis)
	})

	t.Run("no history still generates", func(t *testing.T) {
		provider := &stubProvider{reply: "no trades yet, nothing to learn from"}
		gen := NewGenerator(provider, prompts, 7)

		text, err := gen.Generate(context.Background(), nil, MarketSnapshot{})
		assert.NoError(t, err)
		assert.NotEmpty(t, text)
	})
}
