// photosync ⸻ internal/metadata/exiftool.go
// exiftool subprocess write strategy

package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// ExifToolWriter invokes exiftool once per file, one flag per tag,
// overwriting the file in place. Tags it does not name are left alone by
// the tool itself.
type ExifToolWriter struct {
	opts Options
}

func (w *ExifToolWriter) WritePhoto(path, takenAt, caption string) error {
	return w.run(path, w.photoArgs(path, takenAt, caption))
}

func (w *ExifToolWriter) WriteVideo(path, takenAt string) error {
	return w.run(path, w.videoArgs(path, takenAt))
}

// caption lands in both IPTC caption tags and the generic EXIF image
// description; the date goes through -AllDates, which fans out to the
// file-modify, original-capture and digitized tags
func (w *ExifToolWriter) photoArgs(path, takenAt, caption string) []string {
	args := []string{
		"-overwrite_original",
		fmt.Sprintf("-iptc:Caption-Abstract=%s", caption),
		fmt.Sprintf("-iptc:Headline=%s", caption),
		fmt.Sprintf("-exif:imagedescription=%s", caption),
		fmt.Sprintf("-AllDates=%s", takenAt),
		fmt.Sprintf("-make=%s", w.opts.Source),
		fmt.Sprintf("-artist=%s", w.opts.Artist),
	}

	// profile extras in deterministic order
	extraTags := make([]string, 0, len(w.opts.Extra))
	for tag := range w.opts.Extra {
		extraTags = append(extraTags, tag)
	}
	sort.Strings(extraTags)
	for _, tag := range extraTags {
		args = append(args, fmt.Sprintf("-%s=%s", tag, w.opts.Extra[tag]))
	}

	return append(args, path)
}

func (w *ExifToolWriter) videoArgs(path, takenAt string) []string {
	return []string{
		"-overwrite_original",
		fmt.Sprintf("-CreateDate=%s", takenAt),
		path,
	}
}

func (w *ExifToolWriter) run(path string, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "exiftool", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &WriteError{Path: path, Err: fmt.Errorf("exiftool timed out after %s", w.opts.Timeout)}
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return &WriteError{Path: path, Err: fmt.Errorf("exiftool: %s", msg)}
		}
		return &WriteError{Path: path, Err: fmt.Errorf("exiftool: %w", err)}
	}

	return nil
}
