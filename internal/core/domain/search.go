package domain

import "slices"

// SearchResult is a document-level hit returned by the search engine.
// Results are ordered by descending score.
type SearchResult struct {
	// DocumentID identifies the matched document.
	DocumentID string `json:"document_id"`

	// Score is the engine's relevance score.
	Score float64 `json:"score"`
}

// Snippet is a single sentence from a document, scored against a query.
type Snippet struct {
	SourceDocumentID string  `json:"source_document_id"`
	Text             string  `json:"text"`
	Score            float64 `json:"score"`
}

// AnswerPart pairs a matched document with its best snippets.
type AnswerPart struct {
	Document Document  `json:"document"`
	Snippets []Snippet `json:"snippets"`
}

// AnswerKind distinguishes a real answer from the negative-result states.
type AnswerKind string

const (
	// AnswerFound carries at least one part with snippets.
	AnswerFound AnswerKind = "answer"

	// AnswerNoMatch means the index returned no documents.
	AnswerNoMatch AnswerKind = "no_match"

	// AnswerNoExcerpt means documents matched but none yielded a snippet.
	AnswerNoExcerpt AnswerKind = "no_excerpt"
)

// Answer is the query answerer's result.
type Answer struct {
	Kind AnswerKind `json:"kind"`

	// Parts is set when Kind is AnswerFound.
	Parts []AnswerPart `json:"parts,omitempty"`

	// CandidateURLs is set when Kind is AnswerNoExcerpt.
	CandidateURLs []string `json:"candidate_urls,omitempty"`

	// Message is the user-facing text for this answer.
	Message string `json:"message"`
}

// Clone returns a deep copy of the answer.
func (a *Answer) Clone() *Answer {
	if a == nil {
		return nil
	}
	out := *a
	if a.Parts != nil {
		out.Parts = make([]AnswerPart, len(a.Parts))
		for i, p := range a.Parts {
			out.Parts[i] = AnswerPart{Document: p.Document, Snippets: slices.Clone(p.Snippets)}
		}
	}
	out.CandidateURLs = slices.Clone(a.CandidateURLs)
	return &out
}

// ReplyKind classifies what a visitor receives for one query.
type ReplyKind string

// Reply kinds.
const (
	ReplyAnswer     ReplyKind = "answer"
	ReplyNoMatch    ReplyKind = "no_match"
	ReplyNoExcerpt  ReplyKind = "no_excerpt"
	ReplyNotReady   ReplyKind = "not_ready"
	ReplyEscalation ReplyKind = "escalation"
	ReplyNoContact  ReplyKind = "no_contact"
	ReplyIgnored    ReplyKind = "ignored"
)

// Reply is the outcome of one visitor query.
// Every failure mode of the pipeline ends up here rather than as an error.
type Reply struct {
	Kind ReplyKind `json:"kind"`

	// Message is plain text suitable for a chat bubble.
	Message string `json:"message"`

	// Answer is set for answer, no_match and no_excerpt replies.
	Answer *Answer `json:"answer,omitempty"`

	// DeepLink is set for escalation replies.
	DeepLink string `json:"deep_link,omitempty"`

	// Contact is set for escalation replies.
	Contact *MentorContact `json:"contact,omitempty"`

	// Notices are interim messages emitted before the reply, in order.
	Notices []string `json:"notices,omitempty"`
}

// User-facing messages.
const (
	MessageNoMatch = "I couldn't find that in the website content. " +
		"Try rephrasing or ask about classes, schedules, pricing, benefits, or contact details."
	MessageNoExcerpt = "I found some relevant pages but couldn't extract a good snippet. Please open the links: "
	MessageScanning  = "Give me a moment while I scan this site..."
	MessageNotReady  = "I couldn't initialize the knowledge index. Please refresh the page."
	MessageNoContact = "I couldn't find a mentor phone number on this page. " +
		"Please add data-mentor-phone on <body> or include the number in page content."
	MessageEscalation = "Opening WhatsApp chat with the mentor. If it didn't open, use the link."
)
