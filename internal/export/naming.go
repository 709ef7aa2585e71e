package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ebalder/wmstudio/internal/model"
)

// OutputName computes the destination filename for one source path. The stem
// transform follows the naming rule; the extension always comes from the
// chosen output format, never from the source file.
func OutputName(srcPath string, e model.Export) string {
	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	switch e.Naming {
	case model.NamingPrefix:
		stem = e.Prefix + stem
	case model.NamingSuffix:
		stem = stem + e.Suffix
	}
	return stem + ExtFor(e.Format)
}

// ExtFor maps an output format to its file extension.
func ExtFor(f model.Format) string {
	if f == model.FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

// planOutputs assigns every source its output filename up front, in input
// order. Stem collisions inside one batch get deterministic numeric suffixes
// so a later item can never overwrite an earlier item's output.
func planOutputs(sources []string, e model.Export) []string {
	taken := make(map[string]bool, len(sources))
	names := make([]string, len(sources))
	ext := ExtFor(e.Format)
	for i, src := range sources {
		name := OutputName(src, e)
		if taken[name] {
			stem := strings.TrimSuffix(name, ext)
			for n := 2; ; n++ {
				alt := fmt.Sprintf("%s_%d%s", stem, n, ext)
				if !taken[alt] {
					name = alt
					break
				}
			}
		}
		taken[name] = true
		names[i] = name
	}
	return names
}
