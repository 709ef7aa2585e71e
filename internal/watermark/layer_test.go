package watermark_test

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ebalder/wmstudio/internal/model"
	"github.com/ebalder/wmstudio/internal/watermark"
)

// missingFamily never resolves on disk, so text rendering falls back to the
// bundled font and layer metrics are the same on every machine.
const missingFamily = "no-such-family-anywhere"

func textSpec(content string) model.TextSpec {
	spec := model.Default().Text
	spec.Content = content
	spec.Family = missingFamily
	return spec
}

func solidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRenderTextLayerEmptyContent(t *testing.T) {
	for _, content := range []string{"", "   ", "\t\n"} {
		layer, err := watermark.RenderTextLayer(textSpec(content))
		if err != nil {
			t.Errorf("content %q: unexpected error %v", content, err)
		}
		if layer != nil {
			t.Errorf("content %q: got a layer, want nil", content)
		}
	}
}

func TestRenderTextLayerHasInk(t *testing.T) {
	layer, err := watermark.RenderTextLayer(textSpec("Sample"))
	if err != nil {
		t.Fatalf("RenderTextLayer: %v", err)
	}
	if layer == nil {
		t.Fatal("RenderTextLayer returned nil for non-empty content")
	}
	b := layer.Bounds()
	if b.Dx() < 40 || b.Dy() < 40 {
		t.Errorf("layer bounds = %v, want at least the padding on each side", b)
	}
	opaque := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if layer.NRGBAAt(x, y).A > 0 {
				opaque++
			}
		}
	}
	if opaque == 0 {
		t.Error("layer has no visible pixels")
	}
}

func TestRenderTextLayerShadowGrowsCanvas(t *testing.T) {
	plain := textSpec("Sample")
	plain.Stroke.Enabled = false
	plain.Shadow.Enabled = false

	shadowed := plain
	shadowed.Shadow.Enabled = true
	shadowed.Shadow.Offset = 5

	a, err := watermark.RenderTextLayer(plain)
	if err != nil {
		t.Fatalf("RenderTextLayer(plain): %v", err)
	}
	b, err := watermark.RenderTextLayer(shadowed)
	if err != nil {
		t.Fatalf("RenderTextLayer(shadowed): %v", err)
	}
	if got, want := b.Bounds().Dx(), a.Bounds().Dx()+10; got != want {
		t.Errorf("shadowed width = %d, want %d", got, want)
	}
	if got, want := b.Bounds().Dy(), a.Bounds().Dy()+10; got != want {
		t.Errorf("shadowed height = %d, want %d", got, want)
	}
}

func TestRenderTextLayerBiggerFontBiggerLayer(t *testing.T) {
	small := textSpec("Sample")
	small.Size = 12
	large := textSpec("Sample")
	large.Size = 48

	a, err := watermark.RenderTextLayer(small)
	if err != nil {
		t.Fatalf("RenderTextLayer(small): %v", err)
	}
	b, err := watermark.RenderTextLayer(large)
	if err != nil {
		t.Fatalf("RenderTextLayer(large): %v", err)
	}
	if b.Bounds().Dx() <= a.Bounds().Dx() {
		t.Errorf("48pt width %d not larger than 12pt width %d", b.Bounds().Dx(), a.Bounds().Dx())
	}
}

func TestOpenImageSourceErrors(t *testing.T) {
	if _, err := watermark.OpenImageSource(""); !errors.Is(err, watermark.ErrInvalidSource) {
		t.Errorf("empty path error = %v, want ErrInvalidSource", err)
	}
	missing := filepath.Join(t.TempDir(), "absent.png")
	if _, err := watermark.OpenImageSource(missing); !errors.Is(err, watermark.ErrInvalidSource) {
		t.Errorf("missing file error = %v, want ErrInvalidSource", err)
	}
}

func TestOpenImageSourceReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mark.png")
	if err := imaging.Save(solidNRGBA(8, 8, color.NRGBA{R: 255, A: 255}), path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	src, err := watermark.OpenImageSource(path)
	if err != nil {
		t.Fatalf("OpenImageSource: %v", err)
	}
	if src.Bounds().Dx() != 8 || src.Bounds().Dy() != 8 {
		t.Errorf("source bounds = %v, want 8x8", src.Bounds())
	}
}

func TestRenderImageLayerScalesToShortSide(t *testing.T) {
	src := solidNRGBA(100, 50, color.NRGBA{R: 200, A: 255})
	spec := model.ImageSpec{Scale: 30, Opacity: 100}

	layer := watermark.RenderImageLayer(src, spec, image.Pt(400, 300))
	if got, want := layer.Bounds().Dx(), 90; got != want {
		t.Errorf("layer width = %d, want %d (30%% of short side 300)", got, want)
	}
	if got, want := layer.Bounds().Dy(), 45; got != want {
		t.Errorf("layer height = %d, want %d (aspect preserved)", got, want)
	}
}

func TestRenderImageLayerOpacity(t *testing.T) {
	src := solidNRGBA(90, 45, color.NRGBA{R: 200, A: 255})
	spec := model.ImageSpec{Scale: 30, Opacity: 70}

	layer := watermark.RenderImageLayer(src, spec, image.Pt(400, 300))
	got := int(layer.NRGBAAt(45, 22).A)
	// 255 * 0.70 rounds to 179; resampling may wobble the value by one.
	if got < 178 || got > 180 {
		t.Errorf("center alpha = %d, want about 179", got)
	}
}

func TestRenderImageLayerMinimumWidth(t *testing.T) {
	src := solidNRGBA(40, 40, color.NRGBA{B: 255, A: 255})
	spec := model.ImageSpec{Scale: 5, Opacity: 100}

	layer := watermark.RenderImageLayer(src, spec, image.Pt(10, 10))
	if layer.Bounds().Dx() < 1 || layer.Bounds().Dy() < 1 {
		t.Errorf("layer bounds = %v, want at least 1x1", layer.Bounds())
	}
}

func TestRenderLayerDispatch(t *testing.T) {
	cfg := model.Default()
	cfg.Text = textSpec("Sample")
	layer, err := watermark.RenderLayer(cfg, image.Pt(400, 300))
	if err != nil {
		t.Fatalf("RenderLayer(text): %v", err)
	}
	if layer == nil {
		t.Fatal("RenderLayer(text) returned nil layer")
	}

	cfg.Kind = model.KindImage
	cfg.Image.Path = ""
	if _, err := watermark.RenderLayer(cfg, image.Pt(400, 300)); !errors.Is(err, watermark.ErrInvalidSource) {
		t.Errorf("RenderLayer(image, no path) error = %v, want ErrInvalidSource", err)
	}
}
