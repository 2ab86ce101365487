package web

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	htmlnorm "github.com/custodia-labs/sercha-assist/internal/normalisers/html"
)

// Ensure SignalExtractor implements the interface.
var _ driven.SignalExtractor = (*SignalExtractor)(nil)

// SignalExtractor reads contact signals from a page.
type SignalExtractor struct{}

// NewSignalExtractor creates a signal extractor.
func NewSignalExtractor() *SignalExtractor {
	return &SignalExtractor{}
}

// Signals returns the body attribute named attribute and the page's visible
// text. An empty attribute name uses domain.DefaultContactAttribute.
func (e *SignalExtractor) Signals(page *domain.Page, attribute string) domain.PageSignals {
	if page == nil {
		return domain.PageSignals{}
	}
	if attribute == "" {
		attribute = domain.DefaultContactAttribute
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return domain.PageSignals{}
	}

	phone, _ := doc.Find("body").First().Attr(attribute)

	doc.Find(hiddenSubtrees).Remove()

	return domain.PageSignals{
		PhoneAttribute: strings.TrimSpace(phone),
		VisibleText:    htmlnorm.CollapseWhitespace(doc.Find("body").Text()),
	}
}

const hiddenSubtrees = "script, style, noscript, iframe, template"
