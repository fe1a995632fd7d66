package terminal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/tempo/internal/models"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// MatterSpan measures the matter in progress at now and falls back to the
// whole day when there is none. Today's matters are re-read at most once
// per refresh interval.
func MatterSpan(ctx context.Context, q storage.MatterQuerier, refresh time.Duration, logger *slog.Logger) SpanFunc {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		mu        sync.Mutex
		fetchedAt time.Time
		matters   []models.Matter
	)

	return func(now time.Time) (time.Time, time.Time) {
		dayStart, dayEnd := DaySpan(now)

		mu.Lock()
		defer mu.Unlock()

		if fetchedAt.IsZero() || now.Sub(fetchedAt) >= refresh || now.Before(fetchedAt) {
			ms, err := q.ListMattersByRange(ctx, dayStart, dayEnd)
			if err != nil {
				logger.Warn("failed to load matters for overlay", "error", err)
			} else {
				matters = ms
			}
			fetchedAt = now
		}

		if m, ok := activeMatter(matters, now); ok {
			return m.StartTime.In(now.Location()), m.EndTime.In(now.Location())
		}
		return dayStart, dayEnd
	}
}

// activeMatter returns the earliest-starting matter covering now
func activeMatter(matters []models.Matter, now time.Time) (models.Matter, bool) {
	var (
		best  models.Matter
		found bool
	)
	for _, m := range matters {
		if m.StartTime.After(now) || !now.Before(m.EndTime) {
			continue
		}
		if !found || m.StartTime.Before(best.StartTime) {
			best = m
			found = true
		}
	}
	return best, found
}
