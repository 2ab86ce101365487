package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for assistant resources.
	uriScheme = "assist://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing indexed pages.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "pages",
		Name:        "pages",
		Description: "Pages indexed for this site, in crawl order",
		MIMEType:    "application/json",
	}, s.handlePagesResource)

	// Template for page text.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "pages/{index}",
		Name:        "page-content",
		Description: "Normalised text of one indexed page",
		MIMEType:    "text/plain",
	}, s.handlePageContentResource)
}

// handlePagesResource lists the indexed pages. Before the index is ready
// the list is empty.
func (s *Server) handlePagesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type pageInfo struct {
		Index  int    `json:"index"`
		Title  string `json:"title"`
		URL    string `json:"url"`
		Length int    `json:"length"`
	}

	docs := s.documents(ctx)
	infos := make([]pageInfo, len(docs))
	for i := range docs {
		infos[i] = pageInfo{
			Index:  i,
			Title:  docs[i].Title,
			URL:    docs[i].URL,
			Length: utf8.RuneCountInString(docs[i].Content),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling pages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePageContentResource returns the text of one indexed page.
func (s *Server) handlePageContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	index, ok := extractPageIndex(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs := s.documents(ctx)
	if index >= len(docs) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     docs[index].Content,
		}},
	}, nil
}

// documents activates the session and waits up to ReadyTimeout for its
// corpus.
func (s *Server) documents(ctx context.Context) []domain.Document {
	assistant := s.ports.Assistant
	if s.ports.ReadyTimeout > 0 && assistant.State() != domain.CrawlReady {
		assistant.Activate()
		_ = assistant.WaitReady(ctx, s.ports.ReadyTimeout)
	}
	return assistant.Documents()
}

// extractPageIndex extracts the index from a URI like assist://pages/{index}.
func extractPageIndex(uri string) (int, bool) {
	const prefix = uriScheme + "pages/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	index, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
