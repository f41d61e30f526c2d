// Package di provides dependency injection configuration for the Hearth catalog.
package di

import (
	"github.com/samber/do/v2"

	"github.com/hearthmedia/hearth/internal/config"
	"github.com/hearthmedia/hearth/internal/di/providers"
	"github.com/hearthmedia/hearth/internal/logger"
	"github.com/hearthmedia/hearth/internal/media/images"
	"github.com/hearthmedia/hearth/internal/probe"
	"github.com/hearthmedia/hearth/internal/scanner"
	"github.com/hearthmedia/hearth/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideAllocator)
	do.Provide(injector, providers.ProvideArtStorage)

	// Catalog services
	do.Provide(injector, providers.ProvideArtService)
	do.Provide(injector, providers.ProvideGenreService)
	do.Provide(injector, providers.ProvideFolderService)
	do.Provide(injector, providers.ProvideVideoService)
	do.Provide(injector, providers.ProvideSongService)

	// Scanner layer
	do.Provide(injector, providers.ProvideProber)
	do.Provide(injector, providers.ProvideScanner)
	do.Provide(injector, providers.ProvideFileWatcher)
	do.Provide(injector, providers.ProvideLibraryJob)

	// Server
	do.Provide(injector, providers.ProvideMetricsServer)

	return injector
}

// Bootstrap initializes all services and starts the library job.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.AllocatorHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*images.Storage](injector); err != nil {
		return err
	}

	// Catalog services
	_ = do.MustInvoke[*service.ArtService](injector)
	_ = do.MustInvoke[*service.GenreService](injector)
	_ = do.MustInvoke[*service.FolderService](injector)
	_ = do.MustInvoke[*service.VideoService](injector)
	_ = do.MustInvoke[*service.SongService](injector)

	// Scanner
	_ = do.MustInvoke[probe.Prober](injector)
	_ = do.MustInvoke[*scanner.Scanner](injector)

	// Server
	_ = do.MustInvoke[*providers.MetricsServerHandle](injector)

	// Scan the library and watch it if configured
	if _, err := do.Invoke[*providers.LibraryJob](injector); err != nil {
		return err
	}

	return nil
}
