// Package chart renders a daily candlestick chart with bollinger overlay and
// screenshots it headless. The image is a best-effort side input for the
// decision prompt: any failure degrades to "no chart this cycle" and must
// never block or fail the pipeline.
package chart

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"choonbot/internal/logger"
	"choonbot/internal/market"
	"choonbot/internal/oracle"
)

const (
	chartWidthPx  = 1400
	chartHeightPx = 700
)

// Capturer renders and screenshots at most one chart per cycle.
type Capturer struct {
	enabled bool
	timeout time.Duration
}

func NewCapturer(enabled bool, timeout time.Duration) *Capturer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Capturer{enabled: enabled, timeout: timeout}
}

// Capture returns the chart as a data-URI image payload, or nil when capture
// is disabled or anything along the way fails.
func (c *Capturer) Capture(ctx context.Context, pair string, rows []market.FeatureRow) *oracle.ImagePayload {
	if c == nil || !c.enabled {
		return nil
	}
	if len(rows) == 0 {
		logger.Warnf("chart capture skipped: no feature rows")
		return nil
	}
	html, err := renderHTML(pair, rows)
	if err != nil {
		logger.Warnf("chart render failed, proceeding without image: %v", err)
		return nil
	}
	png, err := c.screenshot(ctx, html)
	if err != nil {
		logger.Warnf("chart screenshot failed, proceeding without image: %v", err)
		return nil
	}
	return &oracle.ImagePayload{
		DataURI:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		Description: fmt.Sprintf("%s daily candles with bollinger bands", pair),
	}
}

func (c *Capturer) screenshot(ctx context.Context, html []byte) ([]byte, error) {
	parent, cancel := chromedp.NewContext(ctx)
	defer cancel()
	timeoutCtx, cancelTimeout := context.WithTimeout(parent, c.timeout)
	defer cancelTimeout()

	dataURI := "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)
	var screenshot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(chartWidthPx, chartHeightPx+100),
		chromedp.Navigate(dataURI),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500 * time.Millisecond),
		chromedp.FullScreenshot(&screenshot, 0),
	}
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return nil, err
	}
	return screenshot, nil
}
