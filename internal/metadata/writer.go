// photosync ⸻ internal/metadata/writer.go
// the metadata-writing capability and its strategy selection

package metadata

import (
	"fmt"
	"time"
)

// Writer applies normalized metadata onto one media file in place.
// Successful writes overwrite the touched tags and never modify others.
type Writer interface {
	// sets capture dates, caption and author/make tags on an image
	WritePhoto(path, takenAt, caption string) error

	// sets only the creation date on a video container
	WriteVideo(path, takenAt string) error
}

// Options carries the immutable per-run write configuration.
type Options struct {
	// author tag value from [general] artist
	Artist string

	// make/source tag value from [general] source
	Source string

	// extra tag → value pairs from the Lua profile, photos only
	Extra map[string]string

	// upper bound on one external tool invocation
	Timeout time.Duration
}

// WriteError carries the failing path and the underlying cause. It is
// fatal to the item, never to the batch.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("metadata write failed for %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// New selects a write strategy by name: "exiftool" shells out to the
// external tool, "native" edits the embedded tag blocks in-process.
func New(strategy string, opts Options) (Writer, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	switch strategy {
	case "", "exiftool":
		return &ExifToolWriter{opts: opts}, nil
	case "native":
		return &NativeWriter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown writer strategy: %s", strategy)
	}
}
