// photosync ⸻ internal/descriptor/descriptor.go
// record model and descriptor file dispatch

package descriptor

import (
	"fmt"
	"path/filepath"
	"strings"

	"photosync/internal/timestamp"
)

// Record is one media item from a descriptor file.
type Record struct {
	// filesystem path, already resolved against the data root where the
	// source shape calls for it
	Path string

	// caption text, possibly empty; never applied to video
	Caption string

	// either a value already in timestamp.Layout or an ISO-8601 UTC
	// string, per the UTC flag
	TakenAt string

	// true when TakenAt still needs UTC→local normalization
	UTC bool
}

// Batch is an ordered collection of records from one descriptor file.
// Photos and videos are kept apart: video writes are timestamp-only.
type Batch struct {
	Photos []Record
	Videos []Record
}

func (b *Batch) Len() int {
	return len(b.Photos) + len(b.Videos)
}

// FormatError reports a descriptor record missing a required key.
type FormatError struct {
	Index int
	Field string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("descriptor record %d: missing required field %q", e.Index, e.Field)
}

// Loader parses descriptor files into batches.
type Loader struct {
	// root for relative media paths; required for social-export and CSV
	// shapes, unused for scanned-photo descriptors
	DataRoot string

	Norm *timestamp.Normalizer
}

// Load parses a JSON or CSV descriptor, dispatching on extension.
func (l *Loader) Load(path string) (*Batch, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return l.loadJSON(path)
	case ".csv":
		return l.loadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported descriptor type: %s", path)
	}
}

func (l *Loader) resolve(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return rel, nil
	}
	if l.DataRoot == "" {
		return "", fmt.Errorf("data volume not configured: cannot resolve relative path %q", rel)
	}
	// converted CSV descriptors store paths already rooted
	if strings.HasPrefix(rel, l.DataRoot+string(filepath.Separator)) {
		return rel, nil
	}
	return filepath.Join(l.DataRoot, rel), nil
}

// export archives keep video payloads under photos/; the descriptor
// still says videos/
func rewriteVideoPath(p string) string {
	return strings.Replace(p, "videos", "photos", 1)
}
