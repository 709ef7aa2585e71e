// Package watermark renders watermark layers and composites them onto base
// images. Every raster handled here uses straight (non-premultiplied) alpha.
package watermark

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/ebalder/wmstudio/internal/model"
)

// ErrInvalidSource reports a watermark image source that is missing or does
// not decode.
var ErrInvalidSource = errors.New("invalid watermark source")

// basePadding is the transparent border around the measured ink box. It keeps
// anti-aliased edges, stroke rings and shadows inside the layer canvas.
const basePadding = 20

// RenderLayer builds the standalone, unrotated layer for the active watermark
// source. ref is the size of the base image the layer will be composited
// onto; only image watermarks use it (their width scales with the shorter
// side). A nil layer with a nil error means the source has nothing to draw
// and compositing should pass the base through unchanged.
func RenderLayer(cfg model.WatermarkConfig, ref image.Point) (*image.NRGBA, error) {
	switch cfg.Kind {
	case model.KindImage:
		src, err := OpenImageSource(cfg.Image.Path)
		if err != nil {
			return nil, err
		}
		return RenderImageLayer(src, cfg.Image, ref), nil
	default:
		return RenderTextLayer(cfg.Text)
	}
}

// RenderTextLayer rasterizes text into a tight layer: measured ink box plus
// padding. Draw order is shadow, then the stroke ring, then the main fill on
// top, so the fill is never hidden by its own outline. Alpha comes entirely
// from the configured colors; no global multiplier is applied here.
func RenderTextLayer(spec model.TextSpec) (*image.NRGBA, error) {
	if strings.TrimSpace(spec.Content) == "" {
		return nil, nil
	}

	face, err := resolveFace(spec)
	if err != nil {
		return nil, fmt.Errorf("render text layer: %w", err)
	}

	bounds, _ := font.BoundString(face, spec.Content)
	bx0 := bounds.Min.X.Floor()
	by0 := bounds.Min.Y.Floor()
	inkW := bounds.Max.X.Ceil() - bx0
	inkH := bounds.Max.Y.Ceil() - by0
	if inkW <= 0 || inkH <= 0 {
		return nil, nil
	}

	pad := basePadding
	if spec.Stroke.Enabled {
		pad += spec.Stroke.Width
	}
	if spec.Shadow.Enabled {
		pad += spec.Shadow.Offset
	}

	dc := gg.NewContext(inkW+2*pad, inkH+2*pad)
	dc.SetFontFace(face)

	// Baseline origin that lands the ink box at (pad, pad).
	ox := float64(pad - bx0)
	oy := float64(pad - by0)

	if spec.Shadow.Enabled {
		off := float64(spec.Shadow.Offset)
		dc.SetRGBA255(0, 0, 0, int(spec.Shadow.Alpha))
		dc.DrawString(spec.Content, ox+off, oy+off)
	}

	if spec.Stroke.Enabled {
		w := spec.Stroke.Width
		c := spec.Stroke.Color
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
		for dy := -w; dy <= w; dy++ {
			for dx := -w; dx <= w; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if dx*dx+dy*dy > w*w {
					continue
				}
				dc.DrawString(spec.Content, ox+float64(dx), oy+float64(dy))
			}
		}
	}

	f := spec.Fill
	dc.SetRGBA255(int(f.R), int(f.G), int(f.B), int(f.A))
	dc.DrawString(spec.Content, ox, oy)

	return imaging.Clone(dc.Image()), nil
}

// OpenImageSource loads a watermark image file. Any failure, from an empty
// path to a decode error, reports ErrInvalidSource so callers can treat the
// whole configuration as unusable.
func OpenImageSource(path string) (*image.NRGBA, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: no image file configured", ErrInvalidSource)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidSource, path, err)
	}
	return imaging.Clone(img), nil
}

// RenderImageLayer scales a decoded watermark image so its width is
// spec.Scale percent of the reference's shorter side, then bakes
// spec.Opacity into the alpha channel. Rotation and compositing stay
// opacity-agnostic because of the baking.
func RenderImageLayer(src *image.NRGBA, spec model.ImageSpec, ref image.Point) *image.NRGBA {
	short := ref.X
	if ref.Y < short {
		short = ref.Y
	}
	targetW := short * spec.Scale / 100
	if targetW < 1 {
		targetW = 1
	}

	layer := imaging.Resize(src, targetW, 0, imaging.Lanczos)
	if spec.Opacity < 100 {
		applyOpacity(layer, float64(spec.Opacity)/100)
	}
	return layer
}

// applyOpacity multiplies every pixel's alpha in place.
func applyOpacity(img *image.NRGBA, opacity float64) {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(float64(img.Pix[i])*opacity + 0.5)
	}
}
