package export

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var inputExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// SupportedInput reports whether the path carries a decodable extension.
func SupportedInput(path string) bool {
	return inputExts[strings.ToLower(filepath.Ext(path))]
}

// ExpandInputs resolves a mix of file and directory arguments into the flat,
// ordered source list for a batch. Directories are walked recursively and
// filtered to the supported extension set. Explicitly named files with
// unsupported extensions are skipped with a warning; a missing argument
// fails the whole expansion.
func ExpandInputs(args []string) ([]string, error) {
	var sources []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			if !SupportedInput(arg) {
				slog.Warn("skipping unsupported input", "file", arg)
				continue
			}
			sources = append(sources, arg)
			continue
		}
		walkErr := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && SupportedInput(path) {
				sources = append(sources, path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, walkErr)
		}
	}
	return sources, nil
}
