// Package fetch retrieves HTML documents over HTTP for minification.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/htmlmin/internal/logger"
)

// ErrStatus is returned when the server answers with a non-success status.
var ErrStatus = errors.New("unexpected HTTP status")

// Page is a fetched document.
type Page struct {
	URL         string
	HTML        string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// Options controls fetching behavior.
type Options struct {
	UserAgent   string
	Timeout     time.Duration
	Headers     map[string]string
	MaxBodySize int // bytes, 0 keeps the collector default
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent: "htmlmin/1.0 (https://github.com/jmylchreest/htmlmin)",
		Timeout:   30 * time.Second,
	}
}

// IsURL reports whether s looks like an http(s) URL rather than a path.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Fetch retrieves the document at targetURL.
func Fetch(ctx context.Context, targetURL string, opts Options) (Page, error) {
	defaults := DefaultOptions()
	page := Page{URL: targetURL}

	collectorOpts := []colly.CollectorOption{
		colly.UserAgent(coalesce(opts.UserAgent, defaults.UserAgent)),
		colly.StdlibContext(ctx),
	}
	if opts.MaxBodySize > 0 {
		collectorOpts = append(collectorOpts, colly.MaxBodySize(opts.MaxBodySize))
	}
	c := colly.NewCollector(collectorOpts...)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaults.Timeout
	}
	c.SetRequestTimeout(timeout)

	if len(opts.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range opts.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		page.StatusCode = r.StatusCode
		page.ContentType = r.Headers.Get("Content-Type")
		page.HTML = string(r.Body)
		page.FetchedAt = time.Now()
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode >= 300 {
			page.StatusCode = r.StatusCode
			fetchErr = fmt.Errorf("%w: %d from %s", ErrStatus, r.StatusCode, targetURL)
			return
		}
		fetchErr = fmt.Errorf("fetch %s: %w", targetURL, err)
	})

	log := logger.For("fetch")
	log.Debug("fetching document", "url", targetURL, "timeout", timeout)

	err := c.Visit(targetURL)
	if fetchErr != nil {
		return page, fetchErr
	}
	if err != nil {
		return page, fmt.Errorf("visit %s: %w", targetURL, err)
	}

	log.Debug("fetched document", "url", targetURL, "status", page.StatusCode, "bytes", len(page.HTML))
	return page, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
