package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/hearthmedia/hearth/internal/config"
	"github.com/hearthmedia/hearth/internal/logger"
	"github.com/hearthmedia/hearth/internal/media/images"
)

// ProvideArtStorage provides the content-addressed art file store.
func ProvideArtStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Metadata.BasePath)
	if err != nil {
		return nil, fmt.Errorf("art storage: %w", err)
	}

	log.Info("Art storage initialized", "path", cfg.Metadata.BasePath)

	return storage, nil
}
