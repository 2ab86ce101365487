package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-assist/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

const (
	// MaxBodySize caps how much of a response body is read.
	MaxBodySize = 2 << 20

	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultUserAgent identifies the crawler to site owners.
	DefaultUserAgent = "sercha-assist"

	defaultMIMEType = "text/html"
)

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Timeout           time.Duration
	UserAgent         string
	RequestsPerSecond float64
}

// ConfigFromSettings maps crawl settings onto a fetcher configuration.
func ConfigFromSettings(s domain.CrawlSettings) FetcherConfig {
	return FetcherConfig{
		Timeout:           s.Timeout,
		UserAgent:         s.UserAgent,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// Fetcher retrieves pages over HTTP. A Fetcher owns one cookie jar, so
// every request made through it carries the session's cookies.
type Fetcher struct {
	client      *resty.Client
	rateLimiter *RateLimiter
}

// NewFetcher creates a fetcher with its own cookie jar.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	// cookiejar.New never fails with the x/net suffix list.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	client := resty.New().
		SetTimeout(timeout).
		SetCookieJar(jar).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &Fetcher{
		client:      client,
		rateLimiter: NewRateLimiter(RateLimitConfig{RequestsPerSecond: cfg.RequestsPerSecond}),
	}
}

// Fetch GETs a page and returns its body decoded to UTF-8.
// Transport failures and non-2xx responses wrap domain.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*domain.RawDocument, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, pageURL, err)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(pageURL)
	if err != nil {
		closeRaw(resp)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, pageURL, err)
	}
	defer closeRaw(resp)

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s: status %d", domain.ErrFetchFailed, pageURL, resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	content, err := readBody(resp.RawBody(), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, pageURL, err)
	}

	logger.Debug("fetched %s (%d bytes)", pageURL, len(content))

	return &domain.RawDocument{
		URI:      pageURL,
		MIMEType: mediaType(contentType),
		Content:  content,
	}, nil
}

// LoadPage fetches the seed page a session is opened on. Only absolute
// http(s) URLs are accepted; local files go through LoadFile.
func (f *Fetcher) LoadPage(ctx context.Context, seed string) (*domain.Page, error) {
	if !IsHTTPURL(seed) {
		return nil, fmt.Errorf("%w: seed %q is not an http(s) URL", domain.ErrInvalidInput, seed)
	}

	raw, err := f.Fetch(ctx, seed)
	if err != nil {
		return nil, err
	}
	return &domain.Page{URL: raw.URI, HTML: string(raw.Content)}, nil
}

// LoadFile reads a local HTML file as a page with a file:// URL.
func LoadFile(path string) (*domain.Page, error) {
	path = strings.TrimPrefix(path, "file://")

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}

	return &domain.Page{URL: "file://" + filepath.ToSlash(abs), HTML: string(data)}, nil
}

func readBody(body io.Reader, contentType string) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	limited := io.LimitReader(body, MaxBodySize)
	reader, err := charset.NewReader(limited, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	return io.ReadAll(reader)
}

func mediaType(contentType string) string {
	if contentType == "" {
		return defaultMIMEType
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return defaultMIMEType
	}
	return mt
}

func closeRaw(resp *resty.Response) {
	if resp == nil || resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return
	}
	_ = resp.RawResponse.Body.Close()
}

// IsHTTPURL reports whether u is an absolute http or https URL.
func IsHTTPURL(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// Ensure FetcherFactory implements the interface.
var _ driven.PageFetcherFactory = FetcherFactory{}

// FetcherFactory creates one Fetcher per session.
type FetcherFactory struct{}

// NewPageFetcher creates a fetcher with a fresh cookie jar.
func (FetcherFactory) NewPageFetcher(settings domain.CrawlSettings) driven.PageFetcher {
	return NewFetcher(ConfigFromSettings(settings))
}
