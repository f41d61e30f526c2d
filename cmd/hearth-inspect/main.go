// Package main prints a summary of a Hearth catalog database.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hearthmedia/hearth/internal/config"
	"github.com/hearthmedia/hearth/internal/domain"
	"github.com/hearthmedia/hearth/internal/service"
	"github.com/hearthmedia/hearth/internal/store/sqlite"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPath := cfg.Metadata.DatabasePath()
	if _, err := os.Stat(dbPath); err != nil {
		log.Fatalf("No catalog at %s: %v", dbPath, err)
	}

	quiet := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	db, err := sqlite.Open(dbPath, quiet)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Inspection never creates items, so the store serves as allocator.
	genres := service.NewGenreService(db, db, 0, quiet)
	videos := service.NewVideoService(db, db, genres, nil, quiet)
	songs := service.NewSongService(db, db, genres, nil, quiet)
	folders := service.NewFolderService(db, db, quiet)

	ctx := context.Background()

	fmt.Println("=== Catalog Inspection ===")
	fmt.Printf("Database: %s\n", dbPath)
	fmt.Println()

	fmt.Println("=== Summary ===")
	fmt.Printf("Folders: %d\n", len(folders.Folders(ctx)))
	fmt.Printf("Videos: %d (%s, %s)\n",
		videos.Count(ctx),
		humanize.Bytes(uint64(max(videos.TotalSize(ctx), 0))),
		time.Duration(videos.TotalDuration(ctx))*time.Second,
	)
	fmt.Printf("Songs: %d\n", songs.Count(ctx))
	fmt.Println()

	all := genres.ListAll(ctx)
	slices.SortFunc(all, func(a, b *domain.Genre) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	fmt.Printf("=== Genres (%d) ===\n", len(all))
	for _, g := range all {
		fmt.Printf("  [%d] %s: %d songs, %d albums, %d artists\n",
			g.ID, g.Name,
			len(genres.SongsOf(ctx, g.ID)),
			len(genres.AlbumsOf(ctx, g.ID)),
			len(genres.ArtistsOf(ctx, g.ID)),
		)
	}
}
