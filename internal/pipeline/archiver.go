package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oddslip/oddslip/internal/domain"
)

// archiveLockKey guards archive runs across instances.
const archiveLockKey = "quote_archive"

// archiveLockTTL bounds how long a crashed holder can block the next run.
const archiveLockTTL = 15 * time.Minute

// Archiver moves aged quote snapshots to cold storage and purges them from
// the primary store once the upload has succeeded.
type Archiver struct {
	blobArchiver  domain.Archiver
	quotes        domain.QuoteStore
	locks         domain.LockManager
	retentionDays int
	logger        *slog.Logger

	// lastCutoff is the upper bound of the previous successful run; the next
	// run archives from here. Zero means "everything so far".
	lastCutoff time.Time
}

// NewArchiver creates a new Archiver.
func NewArchiver(
	blobArchiver domain.Archiver,
	quotes domain.QuoteStore,
	locks domain.LockManager,
	retentionDays int,
	logger *slog.Logger,
) *Archiver {
	return &Archiver{
		blobArchiver:  blobArchiver,
		quotes:        quotes,
		locks:         locks,
		retentionDays: retentionDays,
		logger:        logger.With(slog.String("component", "archiver")),
	}
}

// Run executes a single archive run: everything captured before the retention
// cutoff is uploaded, then purged. When another instance holds the archive
// lock the run is skipped without error.
func (a *Archiver) Run(ctx context.Context) error {
	unlock, err := a.locks.Acquire(ctx, archiveLockKey, archiveLockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrLockHeld) {
			a.logger.DebugContext(ctx, "archive run skipped, lock held elsewhere")
			return nil
		}
		return fmt.Errorf("acquiring archive lock: %w", err)
	}
	defer unlock()

	cutoff := time.Now().UTC().Add(-time.Duration(a.retentionDays) * 24 * time.Hour)
	a.logger.InfoContext(ctx, "starting archive run",
		slog.Time("cutoff", cutoff),
		slog.Int("retention_days", a.retentionDays),
	)

	archived, err := a.blobArchiver.ArchiveQuotes(ctx, a.lastCutoff, cutoff)
	if err != nil {
		return fmt.Errorf("archiving quotes before %v: %w", cutoff, err)
	}

	// Purge only after the upload succeeded; a failed run retries the same
	// rows next time.
	purged, err := a.quotes.PurgeBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purging quotes before %v: %w", cutoff, err)
	}
	a.lastCutoff = cutoff

	a.logger.InfoContext(ctx, "archive run complete",
		slog.Int64("archived", archived),
		slog.Int64("purged", purged),
	)
	return nil
}

// RunLoop runs archive runs on a repeating interval until the context is
// cancelled.
func (a *Archiver) RunLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("archiver loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := a.Run(ctx); err != nil {
				a.logger.ErrorContext(ctx, "archive run failed", slog.String("error", err.Error()))
			}
		}
	}
}
