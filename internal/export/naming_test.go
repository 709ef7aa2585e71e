package export_test

import (
	"testing"

	"github.com/ebalder/wmstudio/internal/export"
	"github.com/ebalder/wmstudio/internal/model"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		src    string
		naming model.NamingRule
		format model.Format
		want   string
	}{
		{"/in/photo.png", model.NamingKeep, model.FormatPNG, "photo.png"},
		{"/in/photo.png", model.NamingKeep, model.FormatJPEG, "photo.jpg"},
		{"/in/IMG_0001.jpg", model.NamingPrefix, model.FormatPNG, "wm_IMG_0001.png"},
		{"/in/photo.jpeg", model.NamingSuffix, model.FormatJPEG, "photo_watermarked.jpg"},
		{"/in/archive.scan.tiff", model.NamingKeep, model.FormatPNG, "archive.scan.png"},
		{"noext", model.NamingSuffix, model.FormatPNG, "noext_watermarked.png"},
	}
	for _, tt := range tests {
		e := model.Export{
			Naming: tt.naming,
			Format: tt.format,
			Prefix: "wm_",
			Suffix: "_watermarked",
		}
		if got := export.OutputName(tt.src, e); got != tt.want {
			t.Errorf("OutputName(%q, %s/%s) = %q, want %q",
				tt.src, tt.naming, tt.format, got, tt.want)
		}
	}
}

func TestExtFor(t *testing.T) {
	if got := export.ExtFor(model.FormatJPEG); got != ".jpg" {
		t.Errorf("ExtFor(jpeg) = %q, want .jpg", got)
	}
	if got := export.ExtFor(model.FormatPNG); got != ".png" {
		t.Errorf("ExtFor(png) = %q, want .png", got)
	}
}
