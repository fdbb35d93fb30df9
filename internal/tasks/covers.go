package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CoverWarmer fetches a cover into the local cache.
type CoverWarmer interface {
	GetCover(ctx context.Context, bookID int, coverURL string) (string, error)
}

// CoverPruner removes stale covers from the local cache.
type CoverPruner interface {
	Prune(maxAge time.Duration) (int, error)
}

// WarmCoverTask downloads a book's cover ahead of the first image request.
type WarmCoverTask struct {
	BookID   int    `json:"book_id"`
	CoverURL string `json:"cover_url"`
}

// Config returns the queue configuration for cover warming tasks.
func (t WarmCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_cover",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// WarmCoverProcessor creates a processor function for WarmCoverTask.
func WarmCoverProcessor(warmer CoverWarmer) backlite.QueueProcessor[WarmCoverTask] {
	return func(ctx context.Context, task WarmCoverTask) error {
		if warmer == nil {
			return fmt.Errorf("cover cache not configured")
		}

		path, err := warmer.GetCover(ctx, task.BookID, task.CoverURL)
		if err != nil {
			return fmt.Errorf("warm cover for book %d: %w", task.BookID, err)
		}

		log.Printf("[TASK] Cached cover for book %d at %s", task.BookID, path)
		return nil
	}
}

// NewWarmCoverQueue creates a backlite queue for cover warming tasks.
func NewWarmCoverQueue(warmer CoverWarmer) backlite.Queue {
	return backlite.NewQueue(WarmCoverProcessor(warmer))
}

// PruneCoversTask removes cached covers older than MaxAge.
type PruneCoversTask struct {
	MaxAge time.Duration `json:"max_age"`
}

// Config returns the queue configuration for cover pruning tasks.
func (t PruneCoversTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_covers",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PruneCoversProcessor creates a processor function for PruneCoversTask.
func PruneCoversProcessor(pruner CoverPruner) backlite.QueueProcessor[PruneCoversTask] {
	return func(ctx context.Context, task PruneCoversTask) error {
		if pruner == nil {
			return fmt.Errorf("cover cache not configured")
		}

		removed, err := pruner.Prune(task.MaxAge)
		if err != nil {
			return fmt.Errorf("prune covers: %w", err)
		}

		log.Printf("[TASK] Pruned %d cached covers older than %s", removed, task.MaxAge)
		return nil
	}
}

// NewPruneCoversQueue creates a backlite queue for cover pruning tasks.
func NewPruneCoversQueue(pruner CoverPruner) backlite.Queue {
	return backlite.NewQueue(PruneCoversProcessor(pruner))
}
