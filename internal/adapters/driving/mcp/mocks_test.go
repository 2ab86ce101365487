package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// mockAssistant is a mock implementation of driving.Assistant.
type mockAssistant struct {
	reply       *domain.Reply
	escalation  *domain.Reply
	err         error
	docs        []domain.Document
	state       domain.CrawlState
	activated   int
	waited      int
	lastQuery   string
	lastMessage string
}

func (m *mockAssistant) Activate() {
	m.activated++
	m.state = domain.CrawlReady
}

func (m *mockAssistant) WaitReady(_ context.Context, _ time.Duration) error {
	m.waited++
	return nil
}

func (m *mockAssistant) Ask(_ context.Context, query string) (*domain.Reply, error) {
	m.lastQuery = query
	return m.reply, m.err
}

func (m *mockAssistant) Escalate(message string) *domain.Reply {
	m.lastMessage = message
	return m.escalation
}

func (m *mockAssistant) State() domain.CrawlState {
	return m.state
}

func (m *mockAssistant) Documents() []domain.Document {
	if m.state != domain.CrawlReady {
		return nil
	}
	return m.docs
}

func (m *mockAssistant) Stats() domain.CrawlStats {
	return domain.CrawlStats{Documents: len(m.docs)}
}

func (m *mockAssistant) Publish(_ domain.Topic) error {
	return nil
}

func (m *mockAssistant) Drain() []*domain.Reply {
	return nil
}
