package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

var indexedDocs = []domain.Document{
	{ID: "https://yoga.test/", URL: "https://yoga.test/", Title: "Sunrise Yoga", Content: "Welcome."},
	{ID: "https://yoga.test/timings", URL: "https://yoga.test/timings", Title: "Class Timings", Content: "Mornings at 6am."},
}

func TestServer_handlePagesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists indexed pages", func(t *testing.T) {
		assistant := &mockAssistant{docs: indexedDocs, state: domain.CrawlReady}
		server, err := NewServer(&Ports{Assistant: assistant})
		require.NoError(t, err)

		result, err := server.handlePagesResource(ctx, readRequest("assist://pages"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var pages []struct {
			Index  int    `json:"index"`
			Title  string `json:"title"`
			URL    string `json:"url"`
			Length int    `json:"length"`
		}
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &pages))
		require.Len(t, pages, 2)
		assert.Equal(t, 1, pages[1].Index)
		assert.Equal(t, "Class Timings", pages[1].Title)
		assert.Equal(t, 16, pages[1].Length)
	})

	t.Run("empty before the index is ready", func(t *testing.T) {
		assistant := &mockAssistant{docs: indexedDocs}
		server, err := NewServer(&Ports{Assistant: assistant})
		require.NoError(t, err)

		result, err := server.handlePagesResource(ctx, readRequest("assist://pages"))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
		assert.Equal(t, 0, assistant.activated)
	})

	t.Run("activates and waits when configured", func(t *testing.T) {
		assistant := &mockAssistant{docs: indexedDocs}
		server, err := NewServer(&Ports{Assistant: assistant, ReadyTimeout: time.Second})
		require.NoError(t, err)

		result, err := server.handlePagesResource(ctx, readRequest("assist://pages"))
		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "Sunrise Yoga")
		assert.Equal(t, 1, assistant.activated)
		assert.Equal(t, 1, assistant.waited)
	})
}

func TestServer_handlePageContentResource(t *testing.T) {
	ctx := context.Background()
	assistant := &mockAssistant{docs: indexedDocs, state: domain.CrawlReady}
	server, err := NewServer(&Ports{Assistant: assistant})
	require.NoError(t, err)

	t.Run("returns page text", func(t *testing.T) {
		result, err := server.handlePageContentResource(ctx, readRequest("assist://pages/1"))
		require.NoError(t, err)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "Mornings at 6am.", result.Contents[0].Text)
	})

	for _, uri := range []string{"assist://pages/2", "assist://pages/-1", "assist://pages/x", "other://pages/0"} {
		t.Run("not found "+uri, func(t *testing.T) {
			_, err := server.handlePageContentResource(ctx, readRequest(uri))
			assert.Error(t, err)
		})
	}
}

func TestExtractPageIndex(t *testing.T) {
	tests := []struct {
		uri   string
		index int
		ok    bool
	}{
		{"assist://pages/0", 0, true},
		{"assist://pages/12", 12, true},
		{"assist://pages/", 0, false},
		{"assist://pages/-3", 0, false},
		{"assist://pages", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			index, ok := extractPageIndex(tt.uri)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.index, index)
		})
	}
}
