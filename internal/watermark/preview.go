package watermark

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ebalder/wmstudio/internal/model"
)

// Preview renders the composite a UI would display for one base image, plus
// the placed layer's bounding box for drag hit-testing. It is a pure function
// of the config snapshot and the base raster. An unusable or empty watermark
// source degrades to a pass-through of the base with a zero rectangle; batch
// export is where source problems become hard errors.
func Preview(cfg model.WatermarkConfig, base image.Image) (*image.NRGBA, image.Rectangle, error) {
	b := base.Bounds()
	size := image.Pt(b.Dx(), b.Dy())

	layer, err := RenderLayer(cfg, size)
	if err != nil {
		if errors.Is(err, ErrInvalidSource) {
			return imaging.Clone(base), image.Rectangle{}, nil
		}
		return nil, image.Rectangle{}, err
	}
	if layer == nil {
		return imaging.Clone(base), image.Rectangle{}, nil
	}

	rotated, offset := Place(layer, cfg.Layout.Rotation, cfg.Layout.PosX, cfg.Layout.PosY, size)
	out := Composite(base, rotated, offset, 1.0)
	return out, LayerRect(rotated, offset), nil
}
