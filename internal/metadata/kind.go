// photosync ⸻ internal/metadata/kind.go
// file kind detection for writer dispatch

package metadata

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Kind is the container family a writer dispatches on.
type Kind string

const (
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindUnknown Kind = "unknown"
)

var (
	imageExtensions = []string{"jpg", "jpeg", "png", "tiff", "heic"}
	videoExtensions = []string{"mp4", "mov", "m4v", "avi"}
)

// DetectKind classifies a file by extension, falling back to magic
// numbers for files without a recognized one.
func DetectKind(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext[0] == '.' {
		ext = ext[1:]
	}

	if slices.Contains(imageExtensions, ext) {
		return KindImage
	}
	if slices.Contains(videoExtensions, ext) {
		return KindVideo
	}

	return detectByMagicNumbers(path)
}

// examines file headers to determine type
func detectByMagicNumbers(path string) Kind {
	file, err := os.Open(path)
	if err != nil {
		return KindUnknown
	}
	defer file.Close()

	header := make([]byte, 12)
	n, err := file.Read(header)
	if err != nil || n < 12 {
		return KindUnknown
	}

	switch {
	case bytes.HasPrefix(header, []byte{0xFF, 0xD8, 0xFF}):
		return KindImage
	case bytes.HasPrefix(header, []byte{0x89, 'P', 'N', 'G'}):
		return KindImage
	case bytes.Equal(header[4:8], []byte("ftyp")):
		return KindVideo
	case bytes.HasPrefix(header, []byte("RIFF")) && bytes.Equal(header[8:12], []byte("AVI ")):
		return KindVideo
	default:
		return KindUnknown
	}
}
