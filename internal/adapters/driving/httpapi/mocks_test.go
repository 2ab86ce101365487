package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driving"
)

// mockAssistant is a mock implementation of driving.Assistant.
type mockAssistant struct {
	reply      *domain.Reply
	escalation *domain.Reply
	askErr     error
	docs       []domain.Document
	state      domain.CrawlState
	published  []domain.Topic
	outbox     []*domain.Reply
	lastQuery  string
	lastMsg    string
}

func (m *mockAssistant) Activate() { m.state = domain.CrawlInProgress }

func (m *mockAssistant) WaitReady(_ context.Context, _ time.Duration) error { return nil }

func (m *mockAssistant) Ask(_ context.Context, query string) (*domain.Reply, error) {
	m.lastQuery = query
	return m.reply, m.askErr
}

func (m *mockAssistant) Escalate(message string) *domain.Reply {
	m.lastMsg = message
	return m.escalation
}

func (m *mockAssistant) State() domain.CrawlState { return m.state }

func (m *mockAssistant) Documents() []domain.Document { return m.docs }

func (m *mockAssistant) Stats() domain.CrawlStats {
	return domain.CrawlStats{Documents: len(m.docs)}
}

func (m *mockAssistant) Publish(topic domain.Topic) error {
	if !topic.IsValid() {
		return domain.ErrInvalidInput
	}
	m.published = append(m.published, topic)
	switch topic {
	case domain.TopicActivate:
		m.Activate()
	case domain.TopicOpenEscalation:
		m.outbox = append(m.outbox, m.Escalate(""))
	}
	return nil
}

func (m *mockAssistant) Drain() []*domain.Reply {
	out := m.outbox
	m.outbox = nil
	return out
}

// mockSessions is a mock implementation of driving.SessionService.
type mockSessions struct {
	sessions map[string]*mockAssistant
	next     *mockAssistant
	openErr  error
	seeds    []string
	closed   bool
}

func newMockSessions() *mockSessions {
	return &mockSessions{sessions: make(map[string]*mockAssistant)}
}

func (m *mockSessions) Open(_ context.Context, seed string) (string, driving.Assistant, error) {
	if m.openErr != nil {
		return "", nil, m.openErr
	}
	m.seeds = append(m.seeds, seed)
	a := m.next
	if a == nil {
		a = &mockAssistant{}
	}
	id := fmt.Sprintf("s%d", len(m.seeds))
	m.sessions[id] = a
	return id, a, nil
}

func (m *mockSessions) OpenPage(_ *domain.Page) (string, driving.Assistant, error) {
	return "", nil, fmt.Errorf("%w: pages are not opened over http", domain.ErrInvalidInput)
}

func (m *mockSessions) Get(id string) (driving.Assistant, error) {
	a, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func (m *mockSessions) Close(id string) error {
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessions) CloseAll() { m.closed = true }
