package watermark

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ebalder/wmstudio/internal/model"
)

// ResizeBase applies the pre-compositing resize transform. Width and Height
// preserve aspect ratio and apply whenever value is positive, upscaling
// included. Percent scales both axes and floors the result at 1px.
func ResizeBase(img image.Image, mode model.ResizeMode, value int) *image.NRGBA {
	if value <= 0 {
		return imaging.Clone(img)
	}
	switch mode {
	case model.ResizeWidth:
		return imaging.Resize(img, value, 0, imaging.Lanczos)
	case model.ResizeHeight:
		return imaging.Resize(img, 0, value, imaging.Lanczos)
	case model.ResizePercent:
		b := img.Bounds()
		w := b.Dx() * value / 100
		h := b.Dy() * value / 100
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		return imaging.Resize(img, w, h, imaging.Lanczos)
	default:
		return imaging.Clone(img)
	}
}
