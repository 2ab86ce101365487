package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// DeepLinkBase is the messaging service deep link prefix.
const DeepLinkBase = "https://wa.me/"

// MinDeepLinkDigits is the shortest number a deep link is built for.
const MinDeepLinkDigits = 8

var (
	// attributeDigits accepts an attribute with a long run of digits.
	attributeDigits = regexp.MustCompile(`\d{7,}`)
	// phoneLike finds a phone number in free text.
	phoneLike = regexp.MustCompile(`\+?\d[\d\s\-()]{7,}`)
	nonDigits = regexp.MustCompile(`\D+`)
)

// ContactResolver finds the mentor's number on a page and builds the
// messaging deep link for it.
type ContactResolver struct {
	message string
}

// NewContactResolver creates a resolver. An empty message uses
// domain.DefaultEscalationMessage.
func NewContactResolver(message string) *ContactResolver {
	if strings.TrimSpace(message) == "" {
		message = domain.DefaultEscalationMessage
	}
	return &ContactResolver{message: message}
}

// Find returns the raw phone string from signals. The body attribute wins
// when it carries seven consecutive digits or reads as a formatted phone
// number; otherwise the first phone-like run in the visible text is used.
func (r *ContactResolver) Find(signals domain.PageSignals) (string, bool) {
	if attr := signals.PhoneAttribute; attr != "" {
		if attributeDigits.MatchString(attr) || phoneLike.MatchString(attr) {
			return attr, true
		}
	}

	if m := phoneLike.FindString(signals.VisibleText); m != "" {
		return m, true
	}
	return "", false
}

// Resolve finds the contact and builds its deep link. A message of "" uses
// the resolver's default. domain.ErrNoContact is returned when no number
// with enough digits is present.
func (r *ContactResolver) Resolve(signals domain.PageSignals, message string) (*domain.MentorContact, string, error) {
	raw, ok := r.Find(signals)
	if !ok {
		return nil, "", domain.ErrNoContact
	}

	if message == "" {
		message = r.message
	}

	digits := ToDigits(raw)
	link, err := BuildDeepLink(digits, message)
	if err != nil {
		return nil, "", err
	}

	return &domain.MentorContact{Digits: digits}, link, nil
}

// ToDigits strips every non-digit character.
func ToDigits(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// BuildDeepLink returns https://wa.me/<digits>?text=<message>. Numbers
// shorter than MinDeepLinkDigits return domain.ErrNoContact.
func BuildDeepLink(digits, message string) (string, error) {
	if len(digits) < MinDeepLinkDigits || ToDigits(digits) != digits {
		return "", fmt.Errorf("%w: %q has fewer than %d digits", domain.ErrNoContact, digits, MinDeepLinkDigits)
	}
	return DeepLinkBase + digits + "?text=" + EncodeComponent(message), nil
}

// EncodeComponent percent-encodes s as a URI component. Letters, digits
// and -_.!~*'() are left alone; spaces become %20.
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isComponentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
