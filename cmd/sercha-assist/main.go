// Command sercha-assist answers visitor questions from a website's own pages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/sercha-assist/internal/adapters/driven/cache/lru"
	"github.com/custodia-labs/sercha-assist/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-assist/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/sercha-assist/internal/adapters/driven/search"
	"github.com/custodia-labs/sercha-assist/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-assist/internal/connectors/web"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-assist/internal/core/services"
	htmlnorm "github.com/custodia-labs/sercha-assist/internal/normalisers/html"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap(opts cli.BootstrapOptions) (driving.SessionService, driving.SettingsService, error) {
	var store driven.ConfigStore
	if opts.NoConfig {
		store = memory.NewConfigStore()
	} else {
		fileStore, err := file.NewConfigStore(opts.ConfigDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open config: %w", err)
		}
		store = fileStore
	}

	settingsService := services.NewSettingsService(store)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, err
	}

	sessionService := services.NewSessionService(services.SessionDeps{
		Fetchers:   web.FetcherFactory{},
		Discoverer: web.NewLinkDiscoverer(),
		Normaliser: htmlnorm.New(),
		Signals:    web.NewSignalExtractor(),
		Engines:    search.NewFactory(),
		Caches:     lru.Factory{},
	}, *settings)

	return sessionService, settingsService, nil
}
