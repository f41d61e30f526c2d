package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/hearthmedia/hearth/internal/config"
	"github.com/hearthmedia/hearth/internal/id"
	"github.com/hearthmedia/hearth/internal/logger"
	"github.com/hearthmedia/hearth/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the catalog database.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Metadata.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("create metadata directory: %w", err)
	}

	dbPath := cfg.Metadata.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// AllocatorHandle wraps the configured item id allocator.
type AllocatorHandle struct {
	id.Allocator
	closeFn func() error
}

// Shutdown implements do.Shutdownable. The sqlite allocator is closed with
// the store.
func (h *AllocatorHandle) Shutdown() error {
	if h.closeFn == nil {
		return nil
	}
	return h.closeFn()
}

// ProvideAllocator provides the item id allocator selected by ID_BACKEND.
func ProvideAllocator(i do.Injector) (*AllocatorHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Identity.Backend {
	case config.IDBackendBadger:
		alloc, err := id.OpenBadgerAllocator(cfg.Metadata.IdentityPath(), id.DefaultBandwidth, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("open id allocator: %w", err)
		}
		return &AllocatorHandle{Allocator: alloc, closeFn: alloc.Close}, nil
	default:
		storeHandle := do.MustInvoke[*StoreHandle](i)
		return &AllocatorHandle{Allocator: storeHandle.Store}, nil
	}
}
