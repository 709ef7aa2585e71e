package cleanup_test

import (
	"context"
	"testing"
	"time"

	wmstudio "github.com/ebalder/wmstudio"
	"github.com/ebalder/wmstudio/internal/cleanup"
	"github.com/ebalder/wmstudio/internal/db"
	"github.com/ebalder/wmstudio/internal/model"
)

func TestCleanerPrunesOldBatches(t *testing.T) {
	database, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	defer database.Close()
	if err := db.Migrate(database, wmstudio.MigrationFS); err != nil {
		t.Fatalf("db.Migrate: %v", err)
	}

	old := &model.Batch{ID: "old", StartedAt: time.Now().Add(-48 * time.Hour)}
	recent := &model.Batch{ID: "recent", StartedAt: time.Now().Add(-time.Hour)}
	for _, b := range []*model.Batch{old, recent} {
		if err := db.InsertBatch(database, b); err != nil {
			t.Fatalf("InsertBatch %s: %v", b.ID, err)
		}
	}

	c := &cleanup.Cleaner{
		DB:        database,
		Retention: 24 * time.Hour,
		Interval:  time.Hour,
	}
	// The loop prunes once on startup; Stop waits for the loop to exit, so
	// the first pass is complete before the assertions run.
	c.Start(context.Background())
	c.Stop()

	left, err := db.ListBatches(database, 10)
	if err != nil {
		t.Fatalf("ListBatches: %v", err)
	}
	if len(left) != 1 || left[0].ID != "recent" {
		t.Errorf("remaining batches = %+v, want only recent", left)
	}
}
