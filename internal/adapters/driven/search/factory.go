// Package search selects a search engine implementation from settings.
package search

import (
	"fmt"

	"github.com/custodia-labs/sercha-assist/internal/adapters/driven/search/memory"
	"github.com/custodia-labs/sercha-assist/internal/adapters/driven/search/sqlite"
	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.SearchEngineFactory = (*Factory)(nil)

// Factory creates engines by kind. The zero value is ready to use.
type Factory struct{}

// NewFactory creates a new engine factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewEngine returns a fresh, empty engine. An empty kind selects the
// in-memory engine.
func (f *Factory) NewEngine(settings domain.IndexSettings) (driven.SearchEngine, error) {
	switch settings.Engine {
	case domain.SearchEngineMemory, "":
		return memory.New(settings), nil
	case domain.SearchEngineSQLite:
		return sqlite.New(settings)
	default:
		return nil, fmt.Errorf("%w: unknown search engine %q", domain.ErrInvalidInput, settings.Engine)
	}
}
