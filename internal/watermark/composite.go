package watermark

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Composite source-over blends the placed layer onto the base and returns a
// new raster; the base is never written to. opacity is a global multiplier in
// [0,1] applied on top of whatever alpha the layer already carries: image
// watermarks arrive with opacity baked in and composite at 1.0, text
// watermarks carry alpha only in their colors. Layer pixels outside the base
// are clipped.
func Composite(base image.Image, layer *image.NRGBA, offset image.Point, opacity float64) *image.NRGBA {
	if layer == nil {
		return imaging.Clone(base)
	}
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	return imaging.Overlay(base, layer, offset, opacity)
}

// FlattenWhite composites an image onto an opaque white background. JPEG has
// no alpha channel, so transparent regions must be resolved before encoding.
func FlattenWhite(img image.Image) *image.NRGBA {
	b := img.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Over)
	return flat
}
