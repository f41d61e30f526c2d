package providers

import (
	"github.com/samber/do/v2"

	"github.com/hearthmedia/hearth/internal/logger"
	"github.com/hearthmedia/hearth/internal/media/images"
	"github.com/hearthmedia/hearth/internal/service"
)

// ProvideArtService provides the art store service.
func ProvideArtService(i do.Injector) (*service.ArtService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	allocator := do.MustInvoke[*AllocatorHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewArtService(storeHandle.Store, allocator, storage, log.Logger), nil
}

// ProvideGenreService provides the genre catalog.
func ProvideGenreService(i do.Injector) (*service.GenreService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	allocator := do.MustInvoke[*AllocatorHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGenreService(storeHandle.Store, allocator, service.DefaultGenreCacheSize, log.Logger), nil
}

// ProvideFolderService provides the folder catalog.
func ProvideFolderService(i do.Injector) (*service.FolderService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	allocator := do.MustInvoke[*AllocatorHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFolderService(storeHandle.Store, allocator, log.Logger), nil
}

// ProvideVideoService provides the video indexer.
func ProvideVideoService(i do.Injector) (*service.VideoService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	allocator := do.MustInvoke[*AllocatorHandle](i)
	genreService := do.MustInvoke[*service.GenreService](i)
	artService := do.MustInvoke[*service.ArtService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewVideoService(storeHandle.Store, allocator, genreService, artService, log.Logger), nil
}

// ProvideSongService provides the song indexer.
func ProvideSongService(i do.Injector) (*service.SongService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	allocator := do.MustInvoke[*AllocatorHandle](i)
	genreService := do.MustInvoke[*service.GenreService](i)
	artService := do.MustInvoke[*service.ArtService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSongService(storeHandle.Store, allocator, genreService, artService, log.Logger), nil
}
