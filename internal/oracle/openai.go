package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"choonbot/internal/logger"
)

// OpenAIClient talks to any /v1/chat/completions compatible endpoint
// (OpenAI, DeepSeek, Qwen and friends). Rate limits and transient 5xx
// responses are retried a bounded number of times with Retry-After support;
// the same payload is resent verbatim, so this never mutates the prompt.
type OpenAIClient struct {
	BaseURL     string
	APIKey      string
	ModelName   string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
}

var _ Provider = (*OpenAIClient)(nil)

func (c *OpenAIClient) Model() string { return c.ModelName }

func (c *OpenAIClient) endpoint() string {
	url := strings.TrimSpace(c.BaseURL)
	if url == "" {
		url = "https://api.openai.com/v1"
	}
	url = strings.TrimRight(url, "/")
	// Tolerate configs that already carry the full completions path.
	url = strings.TrimSuffix(url, "/chat/completions")
	return url + "/chat/completions"
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxRetries := c.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	payload, err := json.Marshal(c.buildBody(req))
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrUnavailable, err)
	}
	logger.OracleRequest(req.Purpose, req.System, req.User, len(req.Images))

	httpc := &http.Client{Timeout: timeout}
	url := c.endpoint()
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
		}

		resp, err := httpc.Do(httpReq)
		if err != nil {
			lastErr = err
			break
		}
		if resp.StatusCode/100 == 2 {
			text, err := decodeContent(resp)
			if err != nil {
				lastErr = err
				break
			}
			logger.OracleResponse(req.Purpose, text)
			return text, nil
		}
		status, msg, wait := decodeFailure(resp)
		lastErr = fmt.Errorf("status=%d: %s", status, msg)
		if !retryable(status) || attempt >= maxRetries {
			break
		}
		if wait == 0 {
			// 0.8s, 1.6s, 3.2s ... capped at 8s.
			wait = (800 * time.Millisecond) << attempt
			if wait > 8*time.Second {
				wait = 8 * time.Second
			}
		}
		logger.Warnf("oracle %s attempt %d/%d failed (%v), retrying in %s", req.Purpose, attempt+1, maxRetries+1, lastErr, wait)
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(wait):
		}
	}
	return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *OpenAIClient) buildBody(req Request) map[string]any {
	messages := make([]map[string]any, 0, 2)
	if req.System != "" {
		messages = append(messages, map[string]any{"role": "system", "content": req.System})
	}
	if len(req.Images) == 0 {
		messages = append(messages, map[string]any{"role": "user", "content": req.User})
	} else {
		parts := []map[string]any{{"type": "text", "text": req.User}}
		for _, img := range req.Images {
			parts = append(parts, map[string]any{
				"type":      "image_url",
				"image_url": map[string]any{"url": img.DataURI},
			})
		}
		messages = append(messages, map[string]any{"role": "user", "content": parts})
	}

	temp := c.Temperature
	if temp == 0 {
		temp = 0.5
	}
	body := map[string]any{
		"model":       c.ModelName,
		"messages":    messages,
		"temperature": temp,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.Schema != nil {
		body["response_format"] = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   req.Schema.Name,
				"strict": true,
				"schema": req.Schema.Schema,
			},
		}
	}
	return body
}

func decodeContent(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 || strings.TrimSpace(r.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty choices")
	}
	return r.Choices[0].Message.Content, nil
}

func decodeFailure(resp *http.Response) (status int, msg string, wait time.Duration) {
	defer resp.Body.Close()
	var eresp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&eresp)
	msg = strings.TrimSpace(eresp.Error.Message)
	if msg == "" {
		msg = resp.Status
	}
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			wait = time.Duration(secs) * time.Second
		}
	}
	return resp.StatusCode, msg, wait
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
