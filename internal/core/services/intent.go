package services

import (
	"regexp"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// IntentRule maps a query pattern to an intent.
type IntentRule struct {
	Name    string
	Pattern *regexp.Regexp
	Intent  domain.Intent
}

// DefaultIntentRules routes requests for a human to escalation.
var DefaultIntentRules = []IntentRule{
	{
		Name:    "mentor",
		Pattern: regexp.MustCompile(`(?i)\b(mentor|trainer|coach|contact|connect|whats ?app|speak|call)\b`),
		Intent:  domain.IntentEscalate,
	},
}

// IntentRouter classifies queries with an ordered rule table. The first
// matching rule wins; queries matching no rule are searched.
type IntentRouter struct {
	rules []IntentRule
}

// NewIntentRouter creates a router. With no rules it uses DefaultIntentRules.
func NewIntentRouter(rules ...IntentRule) *IntentRouter {
	if len(rules) == 0 {
		rules = DefaultIntentRules
	}
	return &IntentRouter{rules: rules}
}

// Classify returns the intent for query.
func (r *IntentRouter) Classify(query string) domain.Intent {
	for _, rule := range r.rules {
		if rule.Pattern.MatchString(query) {
			return rule.Intent
		}
	}
	return domain.IntentSearch
}

// Rules returns the router's rule table.
func (r *IntentRouter) Rules() []IntentRule {
	out := make([]IntentRule, len(r.rules))
	copy(out, r.rules)
	return out
}
