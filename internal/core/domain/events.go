package domain

// Topic names a parameterless in-process signal.
type Topic string

// Session topics.
const (
	// TopicActivate starts the crawl and index build.
	TopicActivate Topic = "assistant.activate"
	// TopicOpenEscalation opens the escalation flow from outside the assistant.
	TopicOpenEscalation Topic = "assistant.open-escalation"
)

// IsValid returns true if the topic is recognised.
func (t Topic) IsValid() bool {
	return t == TopicActivate || t == TopicOpenEscalation
}
