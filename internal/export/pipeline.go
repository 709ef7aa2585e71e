// Package export runs watermark batches: it expands inputs, vets batch-wide
// preconditions, then walks the per-item stages decode, resize, render,
// place, composite, encode, write. Items fail individually; the batch keeps
// going.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ebalder/wmstudio/internal/model"
	"github.com/ebalder/wmstudio/internal/watermark"
)

// ErrorKind classifies a failure for reporting and history rows.
type ErrorKind string

const (
	KindDecodeFailure           ErrorKind = "decode_failure"
	KindInvalidWatermarkSource  ErrorKind = "invalid_watermark_source"
	KindEncodeFailure           ErrorKind = "encode_failure"
	KindOutputDirectoryConflict ErrorKind = "output_directory_conflict"
	KindWriteFailure            ErrorKind = "write_failure"
)

// ErrOutputDirConflict fails a batch whose output directory is also the
// parent directory of one of its sources. Checked before any item runs so a
// batch can never overwrite its own inputs.
var ErrOutputDirConflict = errors.New("output directory contains a source image")

// Failure records one item that did not produce output.
type Failure struct {
	Path string
	Kind ErrorKind
	Err  error
}

// BatchResult reports a finished or canceled batch. Failures keep input
// order; Written holds the destination paths of successful items.
type BatchResult struct {
	SuccessCount int
	Failures     []Failure
	Written      []string
	Canceled     bool
	Started      time.Time
	Finished     time.Time
}

// Progress is invoked once per item, before the item is processed. index is
// zero-based.
type Progress func(index, total int, path string)

// stageError carries the failing stage's classification up to the batch loop.
type stageError struct {
	kind ErrorKind
	err  error
}

func (e *stageError) Error() string { return string(e.kind) + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// Batch applies one configuration snapshot to every source, in order. cfg is
// taken by value: the batch sees a frozen copy no matter what the caller
// mutates afterwards. Batch-level precondition violations return a zero
// result and an error before any file is touched. Cancellation is cooperative
// and checked only at item boundaries; a canceled batch returns the partial
// result with Canceled set and a nil error.
func Batch(ctx context.Context, sources []string, cfg model.WatermarkConfig, progress Progress) (BatchResult, error) {
	cfg.Clamp()
	var res BatchResult

	outDir := cfg.Export.OutputDir
	if outDir == "" {
		return res, errors.New("no output directory configured")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}

	resolvedOut := resolvePath(outDir)
	for _, src := range sources {
		if resolvePath(filepath.Dir(src)) == resolvedOut {
			return res, fmt.Errorf("%w: %s", ErrOutputDirConflict, src)
		}
	}

	// The watermark source is shared by every item: vet it once up front so
	// a broken config fails the batch instead of repeating per item.
	var wmSrc *image.NRGBA
	switch cfg.Kind {
	case model.KindImage:
		src, err := watermark.OpenImageSource(cfg.Image.Path)
		if err != nil {
			return res, err
		}
		wmSrc = src
	default:
		if strings.TrimSpace(cfg.Text.Content) == "" {
			return res, fmt.Errorf("%w: empty watermark text", watermark.ErrInvalidSource)
		}
	}

	// Without a per-item token the text layer is identical for every item,
	// so render it once.
	var staticText *image.NRGBA
	if cfg.Kind == model.KindText && !hasDateToken(cfg.Text.Content) {
		layer, err := watermark.RenderTextLayer(cfg.Text)
		if err != nil {
			return res, err
		}
		staticText = layer
	}

	dests := planOutputs(sources, cfg.Export)
	total := len(sources)
	res.Started = time.Now()
	slog.Info("batch started", "items", total, "out", outDir, "format", cfg.Export.Format)

	for i, src := range sources {
		select {
		case <-ctx.Done():
			res.Canceled = true
			res.Finished = time.Now()
			slog.Info("batch canceled", "done", i, "total", total)
			return res, nil
		default:
		}

		if progress != nil {
			progress(i, total, src)
		}

		dst := filepath.Join(outDir, dests[i])
		if serr := processItem(src, dst, cfg, wmSrc, staticText); serr != nil {
			slog.Warn("item failed", "file", src, "kind", serr.kind, "error", serr.err)
			res.Failures = append(res.Failures, Failure{Path: src, Kind: serr.kind, Err: serr.err})
			continue
		}
		res.SuccessCount++
		res.Written = append(res.Written, dst)
	}

	res.Finished = time.Now()
	slog.Info("batch finished",
		"succeeded", res.SuccessCount,
		"failed", len(res.Failures),
		"elapsed", res.Finished.Sub(res.Started))
	return res, nil
}

// BatchErrorKind classifies a batch-level error from Batch for reporting.
func BatchErrorKind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrOutputDirConflict):
		return KindOutputDirectoryConflict
	case errors.Is(err, watermark.ErrInvalidSource):
		return KindInvalidWatermarkSource
	default:
		return KindWriteFailure
	}
}

func processItem(src, dst string, cfg model.WatermarkConfig, wmSrc, staticText *image.NRGBA) *stageError {
	decoded, err := imaging.Open(src)
	if err != nil {
		return &stageError{KindDecodeFailure, fmt.Errorf("decode %s: %w", src, err)}
	}

	base := watermark.ResizeBase(decoded, cfg.Export.ResizeMode, cfg.Export.ResizeValue)
	size := image.Pt(base.Bounds().Dx(), base.Bounds().Dy())

	layer := staticText
	switch {
	case cfg.Kind == model.KindImage:
		layer = watermark.RenderImageLayer(wmSrc, cfg.Image, size)
	case layer == nil:
		spec := cfg.Text
		spec.Content = expandDateToken(spec.Content, src)
		l, err := watermark.RenderTextLayer(spec)
		if err != nil {
			return &stageError{KindInvalidWatermarkSource, err}
		}
		layer = l
	}

	out := base
	if layer != nil {
		rotated, offset := watermark.Place(layer, cfg.Layout.Rotation, cfg.Layout.PosX, cfg.Layout.PosY, size)
		out = watermark.Composite(base, rotated, offset, 1.0)
	}

	return writeAtomic(dst, out, cfg.Export)
}

// writeAtomic encodes into a temp file in the destination directory and
// renames it into place, so a failed encode never leaves a truncated file at
// the destination path.
func writeAtomic(dst string, img *image.NRGBA, e model.Export) *stageError {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".wmstudio-*")
	if err != nil {
		return &stageError{KindWriteFailure, fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()

	var encErr error
	switch e.Format {
	case model.FormatJPEG:
		encErr = imaging.Encode(tmp, watermark.FlattenWhite(img), imaging.JPEG, imaging.JPEGQuality(e.Quality))
	default:
		encErr = imaging.Encode(tmp, img, imaging.PNG)
	}
	closeErr := tmp.Close()

	if encErr != nil {
		os.Remove(tmpPath)
		return &stageError{KindEncodeFailure, fmt.Errorf("encode %s: %w", dst, encErr)}
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return &stageError{KindWriteFailure, fmt.Errorf("close temp file: %w", closeErr)}
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return &stageError{KindWriteFailure, fmt.Errorf("rename to %s: %w", dst, err)}
	}
	return nil
}

// resolvePath normalizes a path for directory-identity comparison, following
// symlinks when the path exists.
func resolvePath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
