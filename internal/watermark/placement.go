package watermark

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Place rotates the layer about its own center and computes where its
// top-left corner lands on a canvas of the given size. The anchor is the
// normalized position of the layer's center; rotation is degrees, clockwise
// positive. The offset is not clamped: layers may extend past the canvas and
// the compositor clips them there.
func Place(layer *image.NRGBA, rotationDeg, anchorX, anchorY float64, canvas image.Point) (*image.NRGBA, image.Point) {
	deg := math.Mod(rotationDeg, 360)
	if deg < 0 {
		deg += 360
	}

	rotated := layer
	if deg != 0 {
		// imaging rotates counter-clockwise for positive angles.
		rotated = imaging.Rotate(layer, -deg, color.Transparent)
	}

	cx := anchorX * float64(canvas.X)
	cy := anchorY * float64(canvas.Y)
	b := rotated.Bounds()

	offset := image.Pt(
		int(math.Round(cx-float64(b.Dx())/2)),
		int(math.Round(cy-float64(b.Dy())/2)),
	)
	return rotated, offset
}

// LayerRect is the axis-aligned bounding box a placed layer covers on the
// canvas, in canvas pixel coordinates.
func LayerRect(rotated *image.NRGBA, offset image.Point) image.Rectangle {
	if rotated == nil {
		return image.Rectangle{}
	}
	b := rotated.Bounds()
	return image.Rect(offset.X, offset.Y, offset.X+b.Dx(), offset.Y+b.Dy())
}
