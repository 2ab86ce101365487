package web

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-assist/internal/logger"
)

// Ensure LinkDiscoverer implements the interface.
var _ driven.LinkDiscoverer = (*LinkDiscoverer)(nil)

// DefaultLinkLimit is the default number of links discovered per page.
const DefaultLinkLimit = 25

// LinkDiscoverer collects same-origin links from a page.
type LinkDiscoverer struct{}

// NewLinkDiscoverer creates a link discoverer.
func NewLinkDiscoverer() *LinkDiscoverer {
	return &LinkDiscoverer{}
}

// Discover returns up to limit same-origin URLs linked from the page, in
// document order. A non-positive limit uses DefaultLinkLimit.
func (d *LinkDiscoverer) Discover(page *domain.Page, limit int) []string {
	if page == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLinkLimit
	}

	base, err := url.Parse(page.URL)
	if err != nil || !isHTTPScheme(base.Scheme) {
		logger.Debug("link discovery skipped for %q", page.URL)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		logger.Warn("parse page %s: %v", page.URL, err)
		return nil
	}

	self := canonicalWithoutFragment(base)
	seen := make(map[string]bool)
	urls := make([]string, 0, limit)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		target, ok := resolveLink(base, href)
		if !ok {
			return
		}
		if target.Fragment != "" && target.Path == base.Path {
			return
		}
		if canonicalWithoutFragment(target) == self {
			return
		}

		key := target.String()
		if seen[key] {
			return
		}
		seen[key] = true
		urls = append(urls, key)
	})

	if len(urls) > limit {
		urls = urls[:limit]
	}
	return urls
}

// resolveLink resolves href against base and reports whether the result is
// a same-origin HTTP(S) link.
func resolveLink(base *url.URL, href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return nil, false
	}

	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return nil, false
	}

	target, err := base.Parse(href)
	if err != nil {
		return nil, false
	}
	if !isHTTPScheme(target.Scheme) {
		return nil, false
	}
	if !SameOrigin(base, target) {
		return nil, false
	}
	return target, true
}

// SameOrigin reports whether a and b share scheme, host and port.
// Default ports are made explicit before comparing.
func SameOrigin(a, b *url.URL) bool {
	if !strings.EqualFold(a.Scheme, b.Scheme) {
		return false
	}
	if !strings.EqualFold(a.Hostname(), b.Hostname()) {
		return false
	}
	return effectivePort(a) == effectivePort(b)
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	if strings.EqualFold(u.Scheme, "https") {
		return "443"
	}
	return "80"
}

func canonicalWithoutFragment(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	return c.String()
}

func isHTTPScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}
