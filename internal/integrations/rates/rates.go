package rates

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/refiline/refi-service/internal/config"
	"github.com/sirupsen/logrus"
)

// Client fetches prevailing mortgage rates from a weekly survey feed
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new rates client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.RatesURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch retrieves the raw XML survey document
func (c *Client) fetch() ([]byte, error) {
	req, err := http.NewRequest("GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	// Log the raw XML response for debugging
	c.log.Debugf("rates XML response: %s", string(body))

	return body, nil
}

// parseXMLResponse extracts the latest 30-year fixed rate from the survey XML.
// The feed lists weeks newest-first:
//
//	<pmms><week date="2026-08-27"><rate30>6.35</rate30>...</week>...</pmms>
func (c *Client) parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %v", err)
	}

	weeks := doc.FindElements("//pmms/week")
	if len(weeks) == 0 {
		return 0, fmt.Errorf("no survey weeks found in XML")
	}

	latest := weeks[0]
	rateElement := latest.FindElement("./rate30")
	if rateElement == nil {
		return 0, fmt.Errorf("rate30 element not found in XML")
	}

	var rate float64
	if _, err := fmt.Sscanf(rateElement.Text(), "%f", &rate); err != nil {
		return 0, fmt.Errorf("failed to parse rate: %v", err)
	}

	return rate, nil
}

// CurrentRate retrieves the latest 30-year fixed survey rate as a ratio
// (6.35% comes back as 0.0635).
func (c *Client) CurrentRate() (float64, error) {
	body, err := c.fetch()
	if err != nil {
		return 0, err
	}

	percent, err := c.parseXMLResponse(body)
	if err != nil {
		return 0, err
	}
	if percent <= 0 {
		return 0, fmt.Errorf("survey rate must be positive, got %.2f", percent)
	}

	c.log.Infof("Retrieved survey rate: %.2f%%", percent)
	return percent / 100, nil
}
