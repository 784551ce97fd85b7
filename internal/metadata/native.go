// photosync ⸻ internal/metadata/native.go
// in-process write strategy: decode, mutate, re-encode the tag block

package metadata

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abema/go-mp4"
	exif "github.com/dsoprea/go-exif/v3"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"

	"photosync/internal/timestamp"
)

// NativeWriter edits embedded metadata without an external tool: JPEG
// EXIF through a segment-list rebuild, MP4 creation time through an
// in-place movie-header patch. Only the named tags are touched; the
// builders carry every other tag (GPS included) through unchanged.
//
// The IPTC caption namespace has no encoder here, so captions land in
// the EXIF image description only; runs that need IPTC use the exiftool
// strategy.
type NativeWriter struct {
	opts Options
}

// seconds between the ISO/IEC 14496 epoch (1904-01-01) and the Unix epoch
const mp4Epoch = 2082844800

func (w *NativeWriter) WritePhoto(path, takenAt, caption string) error {
	mp := jpegstructure.NewJpegMediaParser()
	intfc, err := mp.ParseFile(path)
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("parse JPEG: %w", err)}
	}

	sl := intfc.(*jpegstructure.SegmentList)

	rootIb, err := sl.ConstructExifBuilder()
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("build EXIF: %w", err)}
	}

	rootTags := map[string]string{
		"ImageDescription": caption,
		"Artist":           w.opts.Artist,
		"Make":             w.opts.Source,
		"DateTime":         takenAt,
	}
	for tag, value := range w.opts.Extra {
		rootTags[tag] = value
	}
	for tag, value := range rootTags {
		if err := rootIb.SetStandardWithName(tag, value); err != nil {
			return &WriteError{Path: path, Err: fmt.Errorf("set %s: %w", tag, err)}
		}
	}

	// capture dates live in the Exif sub-IFD
	exifIb, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD/Exif")
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("build Exif IFD: %w", err)}
	}
	for _, tag := range []string{"DateTimeOriginal", "DateTimeDigitized"} {
		if err := exifIb.SetStandardWithName(tag, takenAt); err != nil {
			return &WriteError{Path: path, Err: fmt.Errorf("set %s: %w", tag, err)}
		}
	}

	if err := sl.SetExif(rootIb); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("write EXIF to JPEG structure: %w", err)}
	}

	if err := writeSegments(path, sl); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return nil
}

// re-encodes through a sibling temp file so a failed write never leaves
// a truncated original behind
func writeSegments(path string, sl *jpegstructure.SegmentList) error {
	tmp := path + ".photosync~"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("open for write: %w", err)
	}

	if err := sl.Write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write JPEG: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmp, path)
}

func (w *NativeWriter) WriteVideo(path, takenAt string) error {
	// creation time in the movie header is UTC by container convention
	wall, err := time.Parse(timestamp.Layout, takenAt)
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("bad timestamp %q: %w", takenAt, err)}
	}
	seconds := uint64(wall.Unix() + mp4Epoch)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer f.Close()

	offset, version, err := locateMvhd(f)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := patchMvhdTimes(f, offset, version, seconds); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return f.Sync()
}

// walks the box structure and returns the payload offset and version of
// the movie header
func locateMvhd(r io.ReadSeeker) (offset uint64, version uint8, err error) {
	found := false

	_, err = mp4.ReadBoxStructure(r, func(h *mp4.ReadHandle) (any, error) {
		switch h.BoxInfo.Type {
		case mp4.BoxTypeMoov():
			return h.Expand()
		case mp4.BoxTypeMvhd():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, fmt.Errorf("reading mvhd payload: %w", err)
			}
			mvhd, ok := box.(*mp4.Mvhd)
			if !ok {
				return nil, fmt.Errorf("unexpected mvhd payload type %T", box)
			}
			offset = h.BoxInfo.Offset + h.BoxInfo.HeaderSize
			version = mvhd.Version
			found = true
		}
		return nil, nil
	})
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, fmt.Errorf("no movie header box found")
	}

	return offset, version, nil
}

// overwrites creation and modification time in place; box sizes never
// change, so the rest of the container stays byte-identical
func patchMvhdTimes(w io.WriteSeeker, payloadOffset uint64, version uint8, seconds uint64) error {
	// skip version byte and 3 flag bytes
	if _, err := w.Seek(int64(payloadOffset)+4, io.SeekStart); err != nil {
		return fmt.Errorf("seek to mvhd times: %w", err)
	}

	var buf []byte
	if version == 0 {
		buf = make([]byte, 8)
		binary.BigEndian.PutUint32(buf[0:4], uint32(seconds))
		binary.BigEndian.PutUint32(buf[4:8], uint32(seconds))
	} else {
		buf = make([]byte, 16)
		binary.BigEndian.PutUint64(buf[0:8], seconds)
		binary.BigEndian.PutUint64(buf[8:16], seconds)
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("patch mvhd times: %w", err)
	}

	return nil
}
