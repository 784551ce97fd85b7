// photosync ⸻ internal/descriptor/json.go
// the two JSON descriptor dialects

package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"photosync/internal/timestamp"
)

// scanned-photo shape: a plain array, timestamps already normalized
type scannedRecord struct {
	Path    *string `json:"path"`
	Caption *string `json:"caption"`
	TakenAt *string `json:"taken_at"`
}

// social-export shape: photos plus optional videos, ISO-8601 UTC dates
type socialExport struct {
	Photos []socialPhoto `json:"photos"`
	Videos []socialVideo `json:"videos"`
}

type socialPhoto struct {
	Path     *string `json:"path"`
	Caption  *string `json:"caption"`
	TakenAt  *string `json:"taken_at"`
	Location *string `json:"location"`
}

type socialVideo struct {
	Path    *string `json:"path"`
	TakenAt *string `json:"taken_at"`
}

func (l *Loader) loadJSON(path string) (*Batch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}

	raw = tolerantUTF8(raw)

	// a top-level array is a scanned-photo descriptor, an object is a
	// social export
	if isJSONArray(raw) {
		return l.loadScanned(raw)
	}
	return l.loadSocial(raw)
}

func isJSONArray(raw []byte) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// exports occasionally carry stray single-byte sequences that are not
// valid UTF-8; reading them as ISO 8859-1 keeps the parse alive instead
// of aborting the whole batch
func tolerantUTF8(raw []byte) []byte {
	if utf8.Valid(raw) {
		return raw
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func (l *Loader) loadScanned(raw []byte) (*Batch, error) {
	var records []scannedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse scanned-photo descriptor: %w", err)
	}

	batch := &Batch{}
	for i, rec := range records {
		switch {
		case rec.Path == nil:
			return nil, &FormatError{Index: i, Field: "path"}
		case rec.Caption == nil:
			return nil, &FormatError{Index: i, Field: "caption"}
		case rec.TakenAt == nil:
			return nil, &FormatError{Index: i, Field: "taken_at"}
		}

		batch.Photos = append(batch.Photos, Record{
			Path:    *rec.Path,
			Caption: *rec.Caption,
			TakenAt: *rec.TakenAt,
		})
	}

	return batch, nil
}

func (l *Loader) loadSocial(raw []byte) (*Batch, error) {
	var export socialExport
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("failed to parse social-export descriptor: %w", err)
	}

	batch := &Batch{}
	for i, pic := range export.Photos {
		switch {
		case pic.Path == nil:
			return nil, &FormatError{Index: i, Field: "path"}
		case pic.Caption == nil:
			return nil, &FormatError{Index: i, Field: "caption"}
		case pic.TakenAt == nil:
			return nil, &FormatError{Index: i, Field: "taken_at"}
		}

		caption := *pic.Caption
		if pic.Location != nil {
			caption = fmt.Sprintf("%s - %s", caption, *pic.Location)
		}

		resolved, err := l.resolve(*pic.Path)
		if err != nil {
			return nil, err
		}

		batch.Photos = append(batch.Photos, Record{
			Path:    resolved,
			Caption: caption,
			TakenAt: *pic.TakenAt,
			UTC:     needsNormalization(*pic.TakenAt),
		})
	}

	for i, video := range export.Videos {
		switch {
		case video.Path == nil:
			return nil, &FormatError{Index: i, Field: "path"}
		case video.TakenAt == nil:
			return nil, &FormatError{Index: i, Field: "taken_at"}
		}

		resolved, err := l.resolve(rewriteVideoPath(*video.Path))
		if err != nil {
			return nil, err
		}

		batch.Videos = append(batch.Videos, Record{
			Path:    resolved,
			TakenAt: *video.TakenAt,
			UTC:     needsNormalization(*video.TakenAt),
		})
	}

	return batch, nil
}

// descriptors produced by the CSV converter are social-shaped but carry
// timestamps already in the target pattern; those must not be run through
// UTC conversion again
func needsNormalization(takenAt string) bool {
	return timestamp.Validate(takenAt) != nil
}
