package html

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// hiddenSelector matches subtrees that never carry prose.
const hiddenSelector = "script, style, noscript, iframe"

// titleTag matches the first <title> element's text.
var titleTag = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)

// Normaliser handles HTML pages.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise converts a fetched page into a document.
// The document ID and URL are the raw URI.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	markup := string(raw.Content)
	content, err := Text(markup)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.URI, err)
	}

	title, ok := Title(markup)
	if !ok {
		title = raw.URI
	}

	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:      raw.URI,
			URL:     raw.URI,
			Title:   title,
			Content: content,
		},
		HasTitle: ok,
	}, nil
}

// Sentences splits plain text into sentence-like units.
func (n *Normaliser) Sentences(content string) []string {
	return SplitSentences(content)
}

// Text returns the visible text of an HTML document.
// Script, style, noscript and iframe subtrees are removed first, then all
// whitespace runs are collapsed to a single space.
func Text(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(hiddenSelector).Remove()

	return CollapseWhitespace(doc.Find("body").Text()), nil
}

// Title extracts the first <title> text, trimmed and entity-decoded.
func Title(markup string) (string, bool) {
	matches := titleTag.FindStringSubmatch(markup)
	if len(matches) < 2 {
		return "", false
	}
	title := strings.TrimSpace(html.UnescapeString(matches[1]))
	if title == "" {
		return "", false
	}
	return title, true
}

// CollapseWhitespace replaces every whitespace run with one space and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitSentences splits text wherever '.', '!' or '?' is immediately
// followed by whitespace. Parts are trimmed and empty parts dropped.
// Abbreviations such as "e.g. this" split too.
func SplitSentences(text string) []string {
	runes := []rune(text)
	sentences := make([]string, 0, len(runes)/80+1)

	start := 0
	for i := 0; i < len(runes)-1; i++ {
		if !isTerminator(runes[i]) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
