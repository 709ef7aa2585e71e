package watermark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ebalder/wmstudio/internal/model"
)

// fontDirs are searched in order for a file matching the requested family.
var fontDirs = []string{
	"/usr/share/fonts/truetype",
	"/usr/share/fonts",
	"/usr/local/share/fonts",
	"/System/Library/Fonts",
	"/Library/Fonts",
	`C:\Windows\Fonts`,
}

type fontKey struct {
	family string
	bold   bool
	italic bool
}

var (
	fontMu    sync.Mutex
	fontCache = map[fontKey]*opentype.Font{}
)

// resolveFace returns a face for the requested family, size and style. A
// family that cannot be found on disk silently falls back to the embedded Go
// fonts; the returned error is only ever a parse failure. Parsed fonts are
// cached, but each call builds its own face: a Face is not safe for
// concurrent use.
func resolveFace(spec model.TextSpec) (font.Face, error) {
	parsed, err := resolveFont(spec.Family, spec.Bold, spec.Italic)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(spec.Size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}
	return face, nil
}

func resolveFont(family string, bold, italic bool) (*opentype.Font, error) {
	key := fontKey{family: family, bold: bold, italic: italic}

	fontMu.Lock()
	defer fontMu.Unlock()
	if f, ok := fontCache[key]; ok {
		return f, nil
	}

	data := findFontFile(family, bold, italic)
	if data == nil {
		data = builtinFont(bold, italic)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		// A broken file on disk should not break rendering.
		parsed, err = opentype.Parse(builtinFont(bold, italic))
		if err != nil {
			return nil, fmt.Errorf("parse builtin font: %w", err)
		}
	}

	fontCache[key] = parsed
	return parsed, nil
}

// findFontFile looks for a usable font file for the family in the usual
// system locations. Returns nil when nothing matches.
func findFontFile(family string, bold, italic bool) []byte {
	family = strings.TrimSpace(family)
	if family == "" {
		return nil
	}

	names := candidateNames(family, bold, italic)
	sub := strings.ToLower(strings.ReplaceAll(family, " ", ""))

	for _, dir := range fontDirs {
		for _, name := range names {
			for _, p := range []string{filepath.Join(dir, name), filepath.Join(dir, sub, name)} {
				if data, err := os.ReadFile(p); err == nil {
					return data
				}
			}
		}
	}
	return nil
}

// candidateNames builds filenames to probe for a family/style combination,
// covering the common "-Bold" and Windows "bd" naming schemes.
func candidateNames(family string, bold, italic bool) []string {
	compact := strings.ReplaceAll(family, " ", "")
	lower := strings.ToLower(compact)

	var suffixes []string
	switch {
	case bold && italic:
		suffixes = []string{"-BoldItalic", "-BoldOblique", "bi"}
	case bold:
		suffixes = []string{"-Bold", "bd", "b"}
	case italic:
		suffixes = []string{"-Italic", "-Oblique", "i"}
	default:
		suffixes = []string{"", "-Regular"}
	}

	var names []string
	for _, s := range suffixes {
		for _, ext := range []string{".ttf", ".otf"} {
			names = append(names, compact+s+ext)
			if alt := lower + strings.ToLower(s) + ext; alt != compact+s+ext {
				names = append(names, alt)
			}
		}
	}
	return names
}

func builtinFont(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}
