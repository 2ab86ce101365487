package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"the visitor's question about the site"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Kind          string       `json:"kind"`
	Message       string       `json:"message"`
	Notices       []string     `json:"notices,omitempty"`
	Parts         []PartOutput `json:"parts,omitempty"`
	CandidateURLs []string     `json:"candidate_urls,omitempty"`
	DeepLink      string       `json:"deep_link,omitempty"`
}

// PartOutput is one cited page in an answer.
type PartOutput struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Snippets []string `json:"snippets"`
}

// ConnectInput is the input schema for the connect_mentor tool.
type ConnectInput struct {
	Message string `json:"message,omitempty" jsonschema:"text to prefill in the chat (optional)"`
}

// ConnectOutput is the output schema for the connect_mentor tool.
type ConnectOutput struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	DeepLink string `json:"deep_link,omitempty"`
	Digits   string `json:"digits,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the site's pages, or hand off to the mentor when asked",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "connect_mentor",
		Description: "Build a WhatsApp link to the mentor listed on the page",
	}, s.handleConnect)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	reply, err := s.ports.Assistant.Ask(ctx, input.Query)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Kind:     string(reply.Kind),
		Message:  reply.Message,
		Notices:  reply.Notices,
		DeepLink: reply.DeepLink,
	}

	if reply.Answer != nil {
		output.CandidateURLs = reply.Answer.CandidateURLs
		output.Parts = make([]PartOutput, len(reply.Answer.Parts))
		for i, p := range reply.Answer.Parts {
			output.Parts[i] = partOutput(p)
		}
	}

	return nil, output, nil
}

// handleConnect handles the connect_mentor tool invocation.
func (s *Server) handleConnect(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ConnectInput,
) (*mcp.CallToolResult, ConnectOutput, error) {
	reply := s.ports.Assistant.Escalate(input.Message)

	output := ConnectOutput{
		Kind:     string(reply.Kind),
		Message:  reply.Message,
		DeepLink: reply.DeepLink,
	}
	if reply.Contact != nil {
		output.Digits = reply.Contact.Digits
	}

	return nil, output, nil
}

func partOutput(p domain.AnswerPart) PartOutput {
	snippets := make([]string, len(p.Snippets))
	for i, sn := range p.Snippets {
		snippets[i] = sn.Text
	}
	return PartOutput{
		Title:    p.Document.Title,
		URL:      p.Document.URL,
		Snippets: snippets,
	}
}
