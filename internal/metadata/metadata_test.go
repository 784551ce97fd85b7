package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPhotoArgs(t *testing.T) {
	w := &ExifToolWriter{opts: Options{
		Artist: "Jane Doe",
		Source: "Instagram",
	}}

	args := w.photoArgs("/data/a.jpg", "2021:05:01 12:00:00", "Trip - Paris")

	want := []string{
		"-overwrite_original",
		"-iptc:Caption-Abstract=Trip - Paris",
		"-iptc:Headline=Trip - Paris",
		"-exif:imagedescription=Trip - Paris",
		"-AllDates=2021:05:01 12:00:00",
		"-make=Instagram",
		"-artist=Jane Doe",
		"/data/a.jpg",
	}
	if len(args) != len(want) {
		t.Fatalf("got %d args, want %d: %v", len(args), len(want), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestPhotoArgsProfileExtrasSortedBeforePath(t *testing.T) {
	w := &ExifToolWriter{opts: Options{
		Artist: "Jane Doe",
		Source: "Scanner",
		Extra: map[string]string{
			"Software":  "photosync",
			"Copyright": "Jane Doe 2020",
		},
	}}

	args := w.photoArgs("/data/a.jpg", "2020:01:02 12:00:00", "hello")

	if args[len(args)-1] != "/data/a.jpg" {
		t.Fatalf("path must be the last argument, got %q", args[len(args)-1])
	}
	joined := strings.Join(args, " ")
	copyrightIdx := strings.Index(joined, "-Copyright=")
	softwareIdx := strings.Index(joined, "-Software=")
	if copyrightIdx < 0 || softwareIdx < 0 || copyrightIdx > softwareIdx {
		t.Fatalf("extras missing or unsorted: %v", args)
	}
}

func TestVideoArgsDateOnly(t *testing.T) {
	w := &ExifToolWriter{opts: Options{Artist: "Jane Doe", Source: "Instagram"}}

	args := w.videoArgs("/data/clip.mp4", "2021:06:01 08:00:00")

	want := []string{
		"-overwrite_original",
		"-CreateDate=2021:06:01 08:00:00",
		"/data/clip.mp4",
	}
	if len(args) != len(want) {
		t.Fatalf("got %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
	if joined := strings.Join(args, " "); strings.Contains(joined, "artist") || strings.Contains(joined, "Caption") {
		t.Fatalf("video write must set the creation date only: %v", args)
	}
}

func TestNewSelectsStrategy(t *testing.T) {
	cases := []struct {
		strategy string
		wantType string
	}{
		{"", "*metadata.ExifToolWriter"},
		{"exiftool", "*metadata.ExifToolWriter"},
		{"native", "*metadata.NativeWriter"},
	}
	for _, tc := range cases {
		w, err := New(tc.strategy, Options{Timeout: time.Second})
		if err != nil {
			t.Fatalf("New(%q): %v", tc.strategy, err)
		}
		if got := typeName(w); got != tc.wantType {
			t.Fatalf("New(%q) = %s, want %s", tc.strategy, got, tc.wantType)
		}
	}

	if _, err := New("carrier-pigeon", Options{}); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *ExifToolWriter:
		return "*metadata.ExifToolWriter"
	case *NativeWriter:
		return "*metadata.NativeWriter"
	default:
		return "?"
	}
}

func TestDetectKindByExtension(t *testing.T) {
	cases := map[string]Kind{
		"a.jpg":  KindImage,
		"a.JPEG": KindImage,
		"b.mp4":  KindVideo,
		"b.MOV":  KindVideo,
	}
	for path, want := range cases {
		if got := DetectKind(path); got != want {
			t.Fatalf("DetectKind(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestDetectKindByMagicNumbers(t *testing.T) {
	dir := t.TempDir()

	jpegish := filepath.Join(dir, "noext")
	if err := os.WriteFile(jpegish, append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 16)...), 0644); err != nil {
		t.Fatal(err)
	}
	if got := DetectKind(jpegish); got != KindImage {
		t.Fatalf("jpeg magic = %v", got)
	}

	mp4ish := filepath.Join(dir, "clip")
	header := append([]byte{0, 0, 0, 24}, []byte("ftypisom")...)
	if err := os.WriteFile(mp4ish, append(header, make([]byte, 16)...), 0644); err != nil {
		t.Fatal(err)
	}
	if got := DetectKind(mp4ish); got != KindVideo {
		t.Fatalf("ftyp magic = %v", got)
	}

	textish := filepath.Join(dir, "notes")
	if err := os.WriteFile(textish, []byte("plain text, nothing else"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := DetectKind(textish); got != KindUnknown {
		t.Fatalf("text = %v", got)
	}
}

func TestWriteErrorCarriesPath(t *testing.T) {
	err := &WriteError{Path: "/data/a.jpg", Err: os.ErrPermission}
	if !strings.Contains(err.Error(), "/data/a.jpg") {
		t.Fatalf("error text missing path: %v", err)
	}
}
