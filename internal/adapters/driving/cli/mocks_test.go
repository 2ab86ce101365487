package cli

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
	waitErr    error
	docs       []domain.Document
	stats      domain.CrawlStats
	activated  bool
	lastQuery  string
	lastMsg    string
}

func (m *mockAssistant) Activate() { m.activated = true }

func (m *mockAssistant) WaitReady(_ context.Context, _ time.Duration) error { return m.waitErr }

func (m *mockAssistant) Ask(_ context.Context, query string) (*domain.Reply, error) {
	m.lastQuery = query
	return m.reply, nil
}

func (m *mockAssistant) Escalate(message string) *domain.Reply {
	m.lastMsg = message
	return m.escalation
}

func (m *mockAssistant) State() domain.CrawlState {
	if m.activated {
		return domain.CrawlReady
	}
	return domain.CrawlNotStarted
}

func (m *mockAssistant) Documents() []domain.Document { return m.docs }

func (m *mockAssistant) Stats() domain.CrawlStats { return m.stats }

func (m *mockAssistant) Publish(topic domain.Topic) error {
	if !topic.IsValid() {
		return domain.ErrInvalidInput
	}
	return nil
}

func (m *mockAssistant) Drain() []*domain.Reply { return nil }

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	assistant *mockAssistant
	openErr   error
	seeds     []string
	pages     []*domain.Page
	closed    []string
}

func (m *mockSessionService) Open(_ context.Context, seed string) (string, driving.Assistant, error) {
	if m.openErr != nil {
		return "", nil, m.openErr
	}
	m.seeds = append(m.seeds, seed)
	return fmt.Sprintf("session-%d", len(m.seeds)), m.assistant, nil
}

func (m *mockSessionService) OpenPage(page *domain.Page) (string, driving.Assistant, error) {
	if m.openErr != nil {
		return "", nil, m.openErr
	}
	m.pages = append(m.pages, page)
	return fmt.Sprintf("page-%d", len(m.pages)), m.assistant, nil
}

func (m *mockSessionService) Get(id string) (driving.Assistant, error) {
	return m.assistant, nil
}

func (m *mockSessionService) Close(id string) error {
	m.closed = append(m.closed, id)
	return nil
}

func (m *mockSessionService) CloseAll() {}
