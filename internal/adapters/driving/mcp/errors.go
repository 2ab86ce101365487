// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// site assistant. It lets AI assistants ask questions about a site and reach
// its mentor through one assistant session.
package mcp

import "errors"

// ErrMissingAssistant is returned when no assistant session is provided.
var ErrMissingAssistant = errors.New("mcp: assistant is required")
