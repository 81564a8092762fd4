package ratefeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/hypo-service/internal/config"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// Client reads the current mortgage interest rate from an XML feed
type Client struct {
	url    string
	path   string
	margin float64
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new rate feed client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:    cfg.RateFeedURL,
		path:   cfg.RateFeedPath,
		margin: cfg.RateFeedMargin,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// sendRequest fetches the raw feed document
func (c *Client) sendRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("Rate feed XML response: %s", string(body))

	return body, nil
}

// parseXMLResponse extracts the rate in percent from the first element
// matching the configured path. Decimal commas are accepted.
func (c *Client) parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	path, err := etree.CompilePath(c.path)
	if err != nil {
		return 0, fmt.Errorf("invalid rate path %q: %w", c.path, err)
	}
	el := doc.FindElementPath(path)
	if el == nil {
		return 0, fmt.Errorf("no rate found at %s", c.path)
	}

	text := strings.ReplaceAll(strings.TrimSpace(el.Text()), ",", ".")
	rate, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse rate %q: %w", el.Text(), err)
	}
	if rate < 0 || rate >= 100 {
		return 0, fmt.Errorf("rate out of range: %v%%", rate)
	}

	return rate, nil
}

// GetRate returns the feed rate plus the bank margin as an annual fraction
func (c *Client) GetRate(ctx context.Context) (float64, error) {
	body, err := c.sendRequest(ctx)
	if err != nil {
		return 0, err
	}

	rate, err := c.parseXMLResponse(body)
	if err != nil {
		return 0, err
	}

	rate += c.margin

	c.log.Infof("Retrieved interest rate: %.2f%% (including %.2f%% bank margin)", rate, c.margin)
	return rate / 100, nil
}
