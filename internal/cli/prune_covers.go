package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/highlights-web/internal/config"
	"github.com/mrlokans/highlights-web/internal/covers"
)

// PruneCoversCommand removes stale covers from the cache directory without starting the server.
type PruneCoversCommand struct {
	CacheDir string
	MaxAge   time.Duration
}

func NewPruneCoversCommand() *PruneCoversCommand {
	return &PruneCoversCommand{}
}

func (cmd *PruneCoversCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("prune-covers", flag.ExitOnError)

	fs.StringVar(&cmd.CacheDir, "dir", config.DefaultCoverCacheDir, "Cover cache directory")
	fs.DurationVar(&cmd.MaxAge, "max-age", 30*24*time.Hour, "Remove covers older than this")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s prune-covers [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Remove cached book covers older than the given age.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.MaxAge <= 0 {
		fs.Usage()
		return fmt.Errorf("max-age must be positive")
	}

	return nil
}

func (cmd *PruneCoversCommand) Run() error {
	cache, err := covers.NewCache(cmd.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to open cover cache: %w", err)
	}

	removed, err := cache.Prune(cmd.MaxAge)
	if err != nil {
		return fmt.Errorf("failed to prune covers: %w", err)
	}

	fmt.Printf("Removed %d cached covers older than %s from %s\n", removed, cmd.MaxAge, cmd.CacheDir)
	return nil
}
