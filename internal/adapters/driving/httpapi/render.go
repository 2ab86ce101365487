package httpapi

import (
	"html"
	"strings"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// replyView is a reply plus its widget markup.
type replyView struct {
	*domain.Reply
	HTML string `json:"html,omitempty"`
}

func newReplyView(reply *domain.Reply) replyView {
	return replyView{Reply: reply, HTML: RenderHTML(reply)}
}

// RenderHTML renders a reply as widget markup. Answers become one block
// per cited page; escalations become a link. Every text value is escaped.
// Other replies render as "" and the widget shows Message as text.
func RenderHTML(reply *domain.Reply) string {
	if reply == nil {
		return ""
	}

	switch reply.Kind {
	case domain.ReplyAnswer:
		if reply.Answer == nil {
			return ""
		}
		return renderParts(reply.Answer.Parts)
	case domain.ReplyEscalation:
		return html.EscapeString(reply.Message) +
			` <a href="` + html.EscapeString(reply.DeepLink) + `" target="_blank" rel="noopener">Open WhatsApp</a>`
	default:
		return ""
	}
}

func renderParts(parts []domain.AnswerPart) string {
	var b strings.Builder
	for _, p := range parts {
		title := p.Document.Title
		if title == "" {
			title = "From page"
		}

		texts := make([]string, len(p.Snippets))
		for i, s := range p.Snippets {
			texts[i] = html.EscapeString(s.Text)
		}

		b.WriteString("<div><strong>")
		b.WriteString(html.EscapeString(title))
		b.WriteString(":</strong> ")
		b.WriteString(strings.Join(texts, " "))
		b.WriteString(` <a href="`)
		b.WriteString(html.EscapeString(p.Document.URL))
		b.WriteString(`" target="_blank" rel="noopener">(open)</a></div>`)
	}
	return b.String()
}
