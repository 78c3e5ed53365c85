// Package upbit implements the exchange adapter against the Upbit REST API.
package upbit

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"choonbot/internal/market"
)

// Client is a thin REST client for the endpoints one trading cycle needs:
// account balances, order book, candles, ticker and market orders.
type Client struct {
	baseURL   string
	accessKey string
	secretKey string
	http      *http.Client
}

type Config struct {
	BaseURL   string
	AccessKey string
	SecretKey string
	Timeout   time.Duration
}

func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "https://api.upbit.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   base,
		accessKey: cfg.AccessKey,
		secretKey: cfg.SecretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

// authToken builds the per-request JWT Upbit expects: HS256 over access_key,
// a uuid nonce and, when parameters are present, their SHA512 query hash.
func (c *Client) authToken(query url.Values) (string, error) {
	claims := jwt.MapClaims{
		"access_key": c.accessKey,
		"nonce":      uuid.NewString(),
	}
	if len(query) > 0 {
		sum := sha512.Sum512([]byte(query.Encode()))
		claims["query_hash"] = hex.EncodeToString(sum[:])
		claims["query_hash_alg"] = "SHA512"
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.secretKey))
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body url.Values, authed bool, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reqBody io.Reader
	if len(body) > 0 {
		payload := make(map[string]string, len(body))
		for k := range body {
			payload[k] = body.Get(k)
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		params := query
		if len(body) > 0 {
			params = body
		}
		token, err := c.authToken(params)
		if err != nil {
			return fmt.Errorf("signing request failed: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Name    any    `json:"name"`
				Message string `json:"message"`
			} `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("upbit %s %s: %s (%v)", method, path, apiErr.Error.Message, apiErr.Error.Name)
		}
		return fmt.Errorf("upbit %s %s: status %s", method, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetBalances returns all account lines. Filtering to the traded pair's two
// currencies is the caller's concern.
func (c *Client) GetBalances(ctx context.Context) ([]market.BalanceSnapshot, error) {
	var raw []accountPayload
	if err := c.do(ctx, http.MethodGet, "/v1/accounts", nil, nil, true, &raw); err != nil {
		return nil, err
	}
	out := make([]market.BalanceSnapshot, 0, len(raw))
	for _, a := range raw {
		out = append(out, market.BalanceSnapshot{
			Currency:    a.Currency,
			Free:        parseFloat(a.Balance),
			Locked:      parseFloat(a.Locked),
			AvgBuyPrice: parseFloat(a.AvgBuyPrice),
		})
	}
	return out, nil
}

// GetOrderBook returns the current book for one pair.
func (c *Client) GetOrderBook(ctx context.Context, pair string) (market.OrderBookSnapshot, error) {
	query := url.Values{"markets": {pair}}
	var raw []orderBookPayload
	if err := c.do(ctx, http.MethodGet, "/v1/orderbook", query, nil, false, &raw); err != nil {
		return market.OrderBookSnapshot{}, err
	}
	if len(raw) == 0 {
		return market.OrderBookSnapshot{}, fmt.Errorf("orderbook empty for %s", pair)
	}
	return raw[0].toSnapshot(), nil
}

// Interval selects the candle endpoint used by GetOHLCV.
type Interval string

const (
	IntervalDay    Interval = "day"
	IntervalHour60 Interval = "minute60"
)

// GetOHLCV fetches up to count candles, returned ascending by time. Upbit
// serves them most-recent-first, so the slice is reversed before returning.
func (c *Client) GetOHLCV(ctx context.Context, pair string, interval Interval, count int) ([]market.PriceBar, error) {
	var path string
	switch interval {
	case IntervalDay:
		path = "/v1/candles/days"
	case IntervalHour60:
		path = "/v1/candles/minutes/60"
	default:
		return nil, fmt.Errorf("unsupported candle interval %q", interval)
	}
	query := url.Values{
		"market": {pair},
		"count":  {fmt.Sprintf("%d", count)},
	}
	var raw []candlePayload
	if err := c.do(ctx, http.MethodGet, path, query, nil, false, &raw); err != nil {
		return nil, err
	}
	bars := make([]market.PriceBar, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		bars = append(bars, raw[i].toBar())
	}
	return bars, nil
}

// GetCurrentPrice returns the last traded price for the pair.
func (c *Client) GetCurrentPrice(ctx context.Context, pair string) (float64, error) {
	query := url.Values{"markets": {pair}}
	var raw []struct {
		TradePrice float64 `json:"trade_price"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/ticker", query, nil, false, &raw); err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, fmt.Errorf("ticker empty for %s", pair)
	}
	return raw[0].TradePrice, nil
}

// BuyMarket spends the given quote-currency amount at market.
func (c *Client) BuyMarket(ctx context.Context, pair, spend string) (*OrderReceipt, error) {
	body := url.Values{
		"market":   {pair},
		"side":     {"bid"},
		"price":    {spend},
		"ord_type": {"price"},
	}
	return c.submitOrder(ctx, body)
}

// SellMarket sells the given base-currency volume at market.
func (c *Client) SellMarket(ctx context.Context, pair, volume string) (*OrderReceipt, error) {
	body := url.Values{
		"market":   {pair},
		"side":     {"ask"},
		"volume":   {volume},
		"ord_type": {"market"},
	}
	return c.submitOrder(ctx, body)
}

func (c *Client) submitOrder(ctx context.Context, body url.Values) (*OrderReceipt, error) {
	var raw orderPayload
	if err := c.do(ctx, http.MethodPost, "/v1/orders", nil, body, true, &raw); err != nil {
		return nil, err
	}
	return raw.toReceipt(), nil
}
