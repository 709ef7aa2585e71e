package export

import (
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// dateToken in watermark text expands per item to the source photo's capture
// date, formatted YYYY-MM-DD.
const dateToken = "{date}"

func hasDateToken(s string) bool {
	return strings.Contains(s, dateToken)
}

func expandDateToken(content, srcPath string) string {
	if !hasDateToken(content) {
		return content
	}
	return strings.ReplaceAll(content, dateToken, captureDate(srcPath).Format("2006-01-02"))
}

// captureDate reads the EXIF capture timestamp (DateTimeOriginal, then
// DateTime) and falls back to the file's modification time when the file has
// no usable EXIF block. JPEG and TIFF carry EXIF; PNG and BMP always fall
// back.
func captureDate(path string) time.Time {
	if f, err := os.Open(path); err == nil {
		x, decErr := exif.Decode(f)
		f.Close()
		if decErr == nil {
			if tm, err := x.DateTime(); err == nil {
				return tm
			}
		}
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Now()
}
