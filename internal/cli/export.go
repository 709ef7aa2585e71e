package cli

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	wmstudio "github.com/ebalder/wmstudio"
	"github.com/ebalder/wmstudio/internal/config"
	"github.com/ebalder/wmstudio/internal/db"
	"github.com/ebalder/wmstudio/internal/export"
	"github.com/ebalder/wmstudio/internal/model"
	"github.com/ebalder/wmstudio/internal/store"
)

func runExport(ctx context.Context, args []string, cfg *config.Config) int {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "config document to apply instead of the last-used config")
		template   = fs.String("template", "", "saved template to apply instead of the last-used config")
		outDir     = fs.String("out", "", "output directory override")
		format     = fs.String("format", "", "output format override (png or jpeg)")
		quality    = fs.Int("quality", 0, "jpeg quality override (0-100)")
		anchor     = fs.String("anchor", "", "anchor preset override (e.g. center, bottom-right)")
		text       = fs.String("text", "", "watermark text override (switches to a text watermark)")
		rotation   = fs.Float64("rotation", 0, "rotation override in clockwise degrees")
	)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: wmstudio export [flags] <file-or-directory>...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	if *configPath != "" && *template != "" {
		fmt.Fprintln(os.Stderr, "wmstudio: use -config or -template, not both")
		return 2
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wmstudio:", err)
		return 2
	}

	wc := st.LoadLast()
	switch {
	case *template != "":
		wc, err = st.Load(*template)
	case *configPath != "":
		var data []byte
		if data, err = os.ReadFile(*configPath); err == nil {
			wc, err = model.Decode(data)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "wmstudio:", err)
		return 2
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["out"] {
		wc.Export.OutputDir = *outDir
	}
	if set["format"] {
		wc.Export.Format = model.Format(*format)
	}
	if set["quality"] {
		wc.Export.Quality = *quality
	}
	if set["text"] {
		wc.Kind = model.KindText
		wc.Text.Content = *text
	}
	if set["rotation"] {
		wc.Layout.Rotation = *rotation
	}
	if set["anchor"] {
		x, y, ok := model.PresetAnchor(*anchor, wc.Layout.Margin)
		if !ok {
			fmt.Fprintf(os.Stderr, "wmstudio: unknown anchor preset %q\n", *anchor)
			return 2
		}
		wc.SetAnchor(x, y)
	}
	wc.Clamp()

	sources, err := export.ExpandInputs(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "wmstudio:", err)
		return 2
	}
	if len(sources) == 0 {
		fmt.Fprintln(os.Stderr, "wmstudio: no supported image files among the inputs")
		return 2
	}

	// Persist the effective config as last-used before the run, so an
	// interrupted batch still carries its settings into the next session.
	if err := st.SaveLast(wc); err != nil {
		slog.Warn("last-used config not saved", "error", err)
	}

	progress := func(index, total int, path string) {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", index+1, total, filepath.Base(path))
	}

	res, err := export.Batch(ctx, sources, wc, progress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wmstudio: %s (%s)\n", err, export.BatchErrorKind(err))
		return 2
	}

	recordHistory(cfg, wc, len(sources), res)

	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "failed (%s): %s\n", f.Kind, f.Path)
	}
	if res.Canceled {
		fmt.Fprintf(os.Stderr, "canceled after %d of %d items\n",
			res.SuccessCount+len(res.Failures), len(sources))
		return 1
	}
	fmt.Printf("%d of %d written to %s\n", res.SuccessCount, len(sources), wc.Export.OutputDir)
	if len(res.Failures) > 0 {
		return 1
	}
	return 0
}

// recordHistory inserts the batch outcome into the local history database.
// History is advisory: a failure here never changes the exit code.
func recordHistory(cfg *config.Config, wc model.WatermarkConfig, total int, res export.BatchResult) {
	database, err := db.Open(cfg.DataDir)
	if err != nil {
		slog.Warn("batch history not recorded", "error", err)
		return
	}
	defer database.Close()
	if err := db.Migrate(database, wmstudio.MigrationFS); err != nil {
		slog.Warn("batch history not recorded", "error", err)
		return
	}

	b := &model.Batch{
		ID:         uuid.NewString(),
		StartedAt:  res.Started,
		FinishedAt: res.Finished,
		OutputDir:  wc.Export.OutputDir,
		Format:     string(wc.Export.Format),
		Total:      total,
		Succeeded:  res.SuccessCount,
		Failed:     len(res.Failures),
		Canceled:   res.Canceled,
	}
	if err := db.InsertBatch(database, b); err != nil {
		slog.Warn("batch history not recorded", "error", err)
		return
	}
	for i, f := range res.Failures {
		bf := &model.BatchFailure{
			BatchID:    b.ID,
			Position:   i,
			SourcePath: f.Path,
			Kind:       string(f.Kind),
			Message:    f.Err.Error(),
		}
		if err := db.InsertBatchFailure(database, bf); err != nil {
			slog.Warn("batch failure not recorded", "batch", b.ID, "error", err)
		}
	}
}
