// Package driving defines the interfaces the CLI, the widget backend and the
// MCP server call into. Implementations live in internal/core/services.
package driving
