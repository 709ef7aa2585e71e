package watermark_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/ebalder/wmstudio/internal/watermark"
)

func TestCompositeZeroOpacityLeavesBase(t *testing.T) {
	base := solidNRGBA(50, 50, color.NRGBA{B: 255, A: 255})
	layer := solidNRGBA(10, 10, color.NRGBA{R: 255, A: 255})

	out := watermark.Composite(base, layer, image.Pt(20, 20), 0)
	for _, p := range []image.Point{{0, 0}, {25, 25}, {49, 49}} {
		if got, want := out.NRGBAAt(p.X, p.Y), base.NRGBAAt(p.X, p.Y); got != want {
			t.Errorf("pixel %v = %v, want base %v", p, got, want)
		}
	}
}

func TestCompositeOpaqueLayerReplacesPixels(t *testing.T) {
	base := solidNRGBA(50, 50, color.NRGBA{B: 255, A: 255})
	layer := solidNRGBA(10, 10, color.NRGBA{R: 255, A: 255})

	out := watermark.Composite(base, layer, image.Pt(20, 20), 1.0)
	if got := out.NRGBAAt(25, 25); got.R != 255 || got.B != 0 {
		t.Errorf("covered pixel = %v, want opaque red", got)
	}
	if got := out.NRGBAAt(5, 5); got.B != 255 || got.R != 0 {
		t.Errorf("uncovered pixel = %v, want base blue", got)
	}
}

func TestCompositeDoesNotMutateBase(t *testing.T) {
	base := solidNRGBA(30, 30, color.NRGBA{G: 255, A: 255})
	layer := solidNRGBA(30, 30, color.NRGBA{R: 255, A: 255})

	_ = watermark.Composite(base, layer, image.Point{}, 1.0)
	if got := base.NRGBAAt(15, 15); got.G != 255 || got.R != 0 {
		t.Errorf("base pixel changed to %v", got)
	}
}

func TestCompositeNilLayer(t *testing.T) {
	base := solidNRGBA(20, 20, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	out := watermark.Composite(base, nil, image.Pt(5, 5), 1.0)
	if got, want := out.NRGBAAt(10, 10), base.NRGBAAt(10, 10); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
	if out == base {
		t.Error("Composite returned the base raster itself, want a copy")
	}
}

func TestCompositeClipsOutOfBounds(t *testing.T) {
	base := solidNRGBA(20, 20, color.NRGBA{B: 255, A: 255})
	layer := solidNRGBA(10, 10, color.NRGBA{R: 255, A: 255})

	out := watermark.Composite(base, layer, image.Pt(-5, -5), 1.0)
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 20 {
		t.Errorf("output bounds = %v, want 20x20", out.Bounds())
	}
	if got := out.NRGBAAt(2, 2); got.R != 255 {
		t.Errorf("overlapped corner = %v, want red", got)
	}
	if got := out.NRGBAAt(10, 10); got.B != 255 {
		t.Errorf("clear region = %v, want base blue", got)
	}
}

func TestFlattenWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(2, 2, color.NRGBA{R: 255, A: 128})

	flat := watermark.FlattenWhite(img)

	if got := flat.NRGBAAt(0, 0); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("transparent pixel = %v, want white", got)
	}
	if got := flat.NRGBAAt(1, 1); got.R != 255 || got.G != 0 || got.B != 0 || got.A != 255 {
		t.Errorf("opaque pixel = %v, want solid red", got)
	}
	got := flat.NRGBAAt(2, 2)
	if got.A != 255 || got.R != 255 {
		t.Errorf("blended pixel = %v, want opaque with full red channel", got)
	}
	// Half red over white keeps roughly half the white in green and blue.
	if got.G < 126 || got.G > 128 || got.B < 126 || got.B > 128 {
		t.Errorf("blended pixel = %v, want green and blue near 127", got)
	}
}
