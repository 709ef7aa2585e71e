// Package cleanup prunes old batch history rows on a schedule while the
// preview server runs.
package cleanup

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/ebalder/wmstudio/internal/db"
)

// Cleaner deletes batches older than Retention, sweeping once at Start and
// then every Interval.
type Cleaner struct {
	DB        *sql.DB
	Retention time.Duration
	Interval  time.Duration
	stop      context.CancelFunc
	done      chan struct{}
}

func (c *Cleaner) Start(ctx context.Context) {
	ctx, c.stop = context.WithCancel(ctx)
	c.done = make(chan struct{})
	slog.Info("history sweeper started", "interval", c.Interval, "retention", c.Retention)

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.Interval)
		defer ticker.Stop()
		for {
			c.sweep()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the sweeper and waits for an in-flight sweep to finish.
func (c *Cleaner) Stop() {
	if c.stop == nil {
		return
	}
	c.stop()
	<-c.done
	slog.Info("history sweeper stopped")
}

func (c *Cleaner) sweep() {
	cutoff := time.Now().Add(-c.Retention)
	n, err := db.PruneBatches(c.DB, cutoff)
	if err != nil {
		slog.Error("prune batch history", "error", err)
		return
	}
	if n > 0 {
		slog.Info("pruned old batches", "count", n, "cutoff", cutoff.Format(time.RFC3339))
	}
}
