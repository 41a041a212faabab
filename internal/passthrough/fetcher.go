// Package passthrough fetches a remote page on behalf of the browser and
// rewrites it so it renders from this origin. It shares no state with the
// signaling relay.
package passthrough

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrBadURL       = errors.New("url must be absolute http or https")
	ErrTooManyHops  = errors.New("too many redirects")
	maxBodyBytes    = int64(10 << 20)
	errBodyTooLarge = errors.New("response body too large")
)

// Page is a fetched (and possibly rewritten) response.
type Page struct {
	Status      int
	ContentType string
	FinalURL    *url.URL
	Body        []byte
}

type Fetcher struct {
	client *http.Client
}

func New(timeout time.Duration, maxRedirects int) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("%w: stopped after %d", ErrTooManyHops, maxRedirects)
				}
				return nil
			},
		},
	}
}

// Fetch GETs rawURL. HTML bodies come back with root-relative links made
// absolute and a <base> tag injected; other bodies are returned as is.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > maxBodyBytes {
		return nil, errBodyTooLarge
	}

	page := &Page{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL,
		Body:        body,
	}
	if strings.Contains(strings.ToLower(page.ContentType), "text/html") {
		rewritten, err := RewriteHTML(body, page.FinalURL)
		if err != nil {
			return nil, fmt.Errorf("rewrite html: %w", err)
		}
		page.Body = rewritten
	}
	return page, nil
}

// Handler serves GET ?url=... Any failure is a 500 with the error message.
func (f *Fetcher) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("url")
		page, err := f.Fetch(c.Request.Context(), raw)
		if err != nil {
			log.Warn().Err(err).Str("module", "passthrough").Str("url", raw).Msg("fetch failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ct := page.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Data(page.Status, ct, page.Body)
	}
}
