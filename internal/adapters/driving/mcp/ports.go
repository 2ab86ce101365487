package mcp

import (
	"time"

	"github.com/custodia-labs/sercha-assist/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Assistant is the session every tool call goes through.
	Assistant driving.Assistant

	// ReadyTimeout bounds how long resource reads wait for the index.
	// Zero means resources never wait.
	ReadyTimeout time.Duration
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistant
	}
	return nil
}
