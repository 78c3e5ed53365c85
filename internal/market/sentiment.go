package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"choonbot/internal/logger"
)

// FearGreedClient fetches the alternative.me Fear & Greed index once per
// cycle. Unavailability is tolerated: the caller receives nil and must carry
// the absence through to the prompt instead of inventing a number.
type FearGreedClient struct {
	endpoint string
	client   *http.Client
}

func NewFearGreedClient(endpoint string, timeout time.Duration) *FearGreedClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &FearGreedClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type fearGreedResponse struct {
	Data []struct {
		Value               string `json:"value"`
		ValueClassification string `json:"value_classification"`
		Timestamp           string `json:"timestamp"`
	} `json:"data"`
	Metadata struct {
		Error any `json:"error"`
	} `json:"metadata"`
}

// Fetch returns the latest index reading, or nil when the feed is
// unreachable or malformed. It never returns an error: a missing sentiment
// signal is a degraded cycle, not a failed one.
func (c *FearGreedClient) Fetch(ctx context.Context) *SentimentIndex {
	idx, err := c.fetch(ctx)
	if err != nil {
		logger.Warnf("fear & greed fetch failed, proceeding without sentiment: %v", err)
		return nil
	}
	return idx
}

func (c *FearGreedClient) fetch(ctx context.Context) (*SentimentIndex, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var payload fearGreedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Metadata.Error != nil {
		return nil, fmt.Errorf("api error: %v", payload.Metadata.Error)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("api data empty")
	}
	latest := payload.Data[0]
	value, err := strconv.Atoi(strings.TrimSpace(latest.Value))
	if err != nil {
		return nil, fmt.Errorf("api value invalid: %q", latest.Value)
	}
	var asOf time.Time
	if raw := strings.TrimSpace(latest.Timestamp); raw != "" {
		if sec, err := strconv.ParseInt(raw, 10, 64); err == nil {
			asOf = time.Unix(sec, 0).UTC()
		}
	}
	return &SentimentIndex{
		Value:          value,
		Classification: strings.TrimSpace(latest.ValueClassification),
		AsOf:           asOf,
	}, nil
}
