package model

import (
	"os"
	"path/filepath"
	"strings"
)

// Kind selects which watermark source is active. The inactive variant's
// fields stay inert but survive serialization round-trips.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Format is an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ResizeMode selects the pre-compositing resize transform.
type ResizeMode string

const (
	ResizeNone    ResizeMode = "none"
	ResizeWidth   ResizeMode = "width"
	ResizeHeight  ResizeMode = "height"
	ResizePercent ResizeMode = "percent"
)

// NamingRule transforms a source filename stem into the output stem.
type NamingRule string

const (
	NamingKeep   NamingRule = "keep"
	NamingPrefix NamingRule = "prefix"
	NamingSuffix NamingRule = "suffix"
)

// RGBA is an 8-bit color with straight (non-premultiplied) alpha.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

type Stroke struct {
	Enabled bool `json:"enabled"`
	Color   RGBA `json:"color"`
	Width   int  `json:"width"`
}

type Shadow struct {
	Enabled bool  `json:"enabled"`
	Offset  int   `json:"offset"`
	Alpha   uint8 `json:"alpha"`
}

type TextSpec struct {
	Content string `json:"content"`
	Family  string `json:"family"`
	Size    int    `json:"size"`
	Bold    bool   `json:"bold"`
	Italic  bool   `json:"italic"`
	Fill    RGBA   `json:"fill"`
	Stroke  Stroke `json:"stroke"`
	Shadow  Shadow `json:"shadow"`
}

type ImageSpec struct {
	Path string `json:"path"`
	// Scale is a percentage of the base image's shorter side.
	Scale   int `json:"scale"`
	Opacity int `json:"opacity"`
}

// Layout places the watermark layer. PosX/PosY are the layer's center in
// normalized base-image coordinates; rotation is degrees, clockwise positive.
type Layout struct {
	PosX     float64 `json:"pos_x"`
	PosY     float64 `json:"pos_y"`
	Rotation float64 `json:"rotation"`
	Margin   float64 `json:"margin"`
}

type Export struct {
	OutputDir   string     `json:"output_dir"`
	Format      Format     `json:"format"`
	Quality     int        `json:"quality"`
	ResizeMode  ResizeMode `json:"resize_mode"`
	ResizeValue int        `json:"resize_value"`
	Naming      NamingRule `json:"naming"`
	Prefix      string     `json:"prefix"`
	Suffix      string     `json:"suffix"`
}

// WatermarkConfig is the full configuration snapshot for one export or
// preview. It is a value type: hand it around by copy, never share a pointer
// across a running batch.
type WatermarkConfig struct {
	Kind   Kind      `json:"kind"`
	Text   TextSpec  `json:"text"`
	Image  ImageSpec `json:"image"`
	Layout Layout    `json:"layout"`
	Export Export    `json:"export"`
}

// Default returns the construction defaults. Absent fields in loaded
// documents resolve to these values.
func Default() WatermarkConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return WatermarkConfig{
		Kind: KindText,
		Text: TextSpec{
			Content: "示例水印 Sample",
			Family:  "Arial",
			Size:    36,
			Fill:    RGBA{R: 255, G: 255, B: 255, A: 200},
			Stroke:  Stroke{Enabled: true, Color: RGBA{A: 180}, Width: 2},
			Shadow:  Shadow{Offset: 2, Alpha: 120},
		},
		Image: ImageSpec{
			Scale:   30,
			Opacity: 70,
		},
		Layout: Layout{
			PosX:   0.5,
			PosY:   0.5,
			Margin: 0.02,
		},
		Export: Export{
			OutputDir:   filepath.Join(home, "Pictures", "watermarked"),
			Format:      FormatPNG,
			Quality:     90,
			ResizeMode:  ResizeNone,
			ResizeValue: 100,
			Naming:      NamingSuffix,
			Prefix:      "wm_",
			Suffix:      "_watermarked",
		},
	}
}

// Clamp forces every field back into its documented range. Call it after any
// mutation path: flag overrides, document loads, drag updates.
func (c *WatermarkConfig) Clamp() {
	c.Kind = Kind(strings.ToLower(string(c.Kind)))
	switch c.Kind {
	case KindText, KindImage:
	default:
		c.Kind = KindText
	}

	if c.Text.Size < 1 {
		c.Text.Size = 1
	}
	if c.Text.Stroke.Width < 1 {
		c.Text.Stroke.Width = 1
	}
	if c.Text.Shadow.Offset < 0 {
		c.Text.Shadow.Offset = 0
	}

	c.Image.Scale = clampInt(c.Image.Scale, 5, 300)
	c.Image.Opacity = clampInt(c.Image.Opacity, 0, 100)

	c.Layout.PosX = clampFloat(c.Layout.PosX, 0, 1)
	c.Layout.PosY = clampFloat(c.Layout.PosY, 0, 1)
	c.Layout.Margin = clampFloat(c.Layout.Margin, 0, 0.5)

	c.Export.Format = Format(strings.ToLower(string(c.Export.Format)))
	if c.Export.Format == "jpg" {
		c.Export.Format = FormatJPEG
	}
	switch c.Export.Format {
	case FormatPNG, FormatJPEG:
	default:
		c.Export.Format = FormatPNG
	}

	c.Export.Quality = clampInt(c.Export.Quality, 0, 100)

	c.Export.ResizeMode = ResizeMode(strings.ToLower(string(c.Export.ResizeMode)))
	switch c.Export.ResizeMode {
	case ResizeNone, ResizeWidth, ResizeHeight, ResizePercent:
	default:
		c.Export.ResizeMode = ResizeNone
	}
	if c.Export.ResizeValue < 1 {
		c.Export.ResizeValue = 1
	}

	c.Export.Naming = NamingRule(strings.ToLower(string(c.Export.Naming)))
	switch c.Export.Naming {
	case NamingKeep, NamingPrefix, NamingSuffix:
	default:
		c.Export.Naming = NamingKeep
	}
}

// SetAnchor moves the layer center, re-clamping to the unit square.
func (c *WatermarkConfig) SetAnchor(x, y float64) {
	c.Layout.PosX = clampFloat(x, 0, 1)
	c.Layout.PosY = clampFloat(y, 0, 1)
}

// PresetAnchor returns the normalized center position for a named nine-grid
// preset, inset from the edges by the margin fraction.
func PresetAnchor(name string, margin float64) (x, y float64, ok bool) {
	m := clampFloat(margin, 0, 0.5)
	switch strings.ToLower(name) {
	case "top-left":
		return m, m, true
	case "top-center", "top":
		return 0.5, m, true
	case "top-right":
		return 1 - m, m, true
	case "center-left", "left":
		return m, 0.5, true
	case "center":
		return 0.5, 0.5, true
	case "center-right", "right":
		return 1 - m, 0.5, true
	case "bottom-left":
		return m, 1 - m, true
	case "bottom-center", "bottom":
		return 0.5, 1 - m, true
	case "bottom-right":
		return 1 - m, 1 - m, true
	}
	return 0, 0, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
