package ingest

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vytor/studybook/internal/logger"
)

const maxPageBytes = 5 << 20

// Fetcher downloads web pages for website sources.
type Fetcher interface {
	FetchPage(ctx context.Context, pageURL string) (Page, error)
}

type Client struct {
	http *resty.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "studybook-ingest/1.0").
			SetHeader("Accept", "text/html,text/plain;q=0.9").
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)),
	}
}

var _ Fetcher = (*Client)(nil)

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host")
	}
	return nil
}

func (c *Client) FetchPage(ctx context.Context, pageURL string) (Page, error) {
	log := logger.FromContext(ctx).WithPrefix("ingest").WithField("url", pageURL)

	if err := ValidateURL(pageURL); err != nil {
		return Page{}, err
	}

	log.Debug("fetching page")
	start := time.Now()

	resp, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		log.Error("failed to fetch page: %v", err)
		return Page{}, err
	}

	log.Debug("page response received in %v, status=%d", time.Since(start), resp.StatusCode())

	if resp.IsError() {
		body := resp.Body()
		if len(body) > 1024 {
			body = body[:1024]
		}
		log.Error("page request failed: status=%d, body=%s", resp.StatusCode(), string(body))
		return Page{}, fmt.Errorf("page status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxPageBytes {
		body = body[:maxPageBytes]
	}

	page := Page{URL: pageURL}
	if strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain") {
		page.Text = strings.TrimSpace(string(body))
	} else {
		page.Title, page.Text, err = HTMLToText(bytes.NewReader(body))
		if err != nil {
			log.Error("failed to parse page: %v", err)
			return Page{}, err
		}
	}
	if page.Text == "" {
		return page, ErrEmptyContent
	}

	log.Info("fetched page: title=%q, %d bytes of text", page.Title, len(page.Text))
	return page, nil
}
