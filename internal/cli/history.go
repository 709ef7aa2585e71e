package cli

import (
	"flag"
	"fmt"
	"os"

	wmstudio "github.com/ebalder/wmstudio"
	"github.com/ebalder/wmstudio/internal/config"
	"github.com/ebalder/wmstudio/internal/db"
)

func runHistory(args []string, cfg *config.Config) int {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 20, "number of batches to show")
	showFailures := fs.Bool("failures", false, "list the failed items of each batch")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	database, err := db.Open(cfg.DataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wmstudio:", err)
		return 1
	}
	defer database.Close()
	if err := db.Migrate(database, wmstudio.MigrationFS); err != nil {
		fmt.Fprintln(os.Stderr, "wmstudio:", err)
		return 1
	}

	batches, err := db.ListBatches(database, *limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wmstudio:", err)
		return 1
	}
	if len(batches) == 0 {
		fmt.Println("no batches recorded")
		return 0
	}

	for _, b := range batches {
		status := ""
		if b.Canceled {
			status = "  (canceled)"
		}
		id := b.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Printf("%s  %s  %d ok, %d failed of %d  %s%s\n",
			b.StartedAt.Local().Format("2006-01-02 15:04"),
			id, b.Succeeded, b.Failed, b.Total, b.OutputDir, status)

		if !*showFailures || b.Failed == 0 {
			continue
		}
		failures, err := db.ListBatchFailures(database, b.ID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "wmstudio:", err)
			return 1
		}
		for _, f := range failures {
			fmt.Printf("    %s: %s\n", f.Kind, f.SourcePath)
		}
	}
	return 0
}
