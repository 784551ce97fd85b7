package descriptor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"photosync/internal/timestamp"
)

func newLoader(t *testing.T, dataRoot string) *Loader {
	t.Helper()
	return &Loader{
		DataRoot: dataRoot,
		Norm:     timestamp.New(time.UTC),
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadScannedDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scanned.json", `[
		{"path": "/archive/one.jpg", "caption": "first", "taken_at": "1999:12:31 23:59:59"},
		{"path": "/archive/two.jpg", "caption": "", "taken_at": "2000:01:01 00:00:01"}
	]`)

	batch, err := newLoader(t, "").Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(batch.Photos) != 2 || len(batch.Videos) != 0 {
		t.Fatalf("got %d photos / %d videos", len(batch.Photos), len(batch.Videos))
	}
	first := batch.Photos[0]
	if first.Path != "/archive/one.jpg" || first.Caption != "first" || first.TakenAt != "1999:12:31 23:59:59" {
		t.Fatalf("unexpected record: %+v", first)
	}
	if first.UTC {
		t.Fatal("scanned records must not be marked for UTC normalization")
	}
}

func TestLoadScannedDescriptorMissingKey(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `[
		{"path": "/a.jpg", "caption": "ok", "taken_at": "2000:01:01 00:00:01"},
		{"path": "/b.jpg", "taken_at": "2000:01:01 00:00:02"}
	]`)

	_, err := newLoader(t, "").Load(path)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FormatError, got %v", err)
	}
	if ferr.Index != 1 || ferr.Field != "caption" {
		t.Fatalf("FormatError = %+v", ferr)
	}
}

func TestLoadSocialExportWithLocation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "export.json", `{
		"photos": [
			{"path": "photos/a.jpg", "taken_at": "2021-05-01T10:00:00", "caption": "Trip", "location": "Paris"},
			{"path": "photos/b.jpg", "taken_at": "2021-05-02T11:30:00", "caption": "Home"}
		]
	}`)

	batch, err := newLoader(t, "/data").Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := batch.Photos[0].Caption; got != "Trip - Paris" {
		t.Fatalf("caption with location = %q", got)
	}
	if got := batch.Photos[1].Caption; got != "Home" {
		t.Fatalf("caption without location = %q, want no separator", got)
	}
	if got := batch.Photos[0].Path; got != filepath.Join("/data", "photos/a.jpg") {
		t.Fatalf("path not resolved against data root: %q", got)
	}
	if !batch.Photos[0].UTC {
		t.Fatal("export timestamps must be marked for UTC normalization")
	}
}

func TestLoadSocialExportVideos(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "export.json", `{
		"photos": [],
		"videos": [
			{"path": "videos/clip.mp4", "taken_at": "2021-06-01T08:00:00"}
		]
	}`)

	batch, err := newLoader(t, "/data").Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(batch.Videos) != 1 {
		t.Fatalf("got %d videos", len(batch.Videos))
	}
	// the archive stores video payloads under photos/
	if got := batch.Videos[0].Path; got != filepath.Join("/data", "photos/clip.mp4") {
		t.Fatalf("video path = %q", got)
	}
	if batch.Videos[0].Caption != "" {
		t.Fatal("videos must not carry captions")
	}
}

func TestLoadJSONToleratesLatin1(t *testing.T) {
	dir := t.TempDir()
	// 0xE9 is é in ISO 8859-1 but an invalid byte sequence in UTF-8
	content := []byte(`[{"path": "/a.jpg", "caption": "caf` + "\xe9" + `", "taken_at": "2000:01:01 00:00:01"}]`)
	path := filepath.Join(dir, "latin1.json")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	batch, err := newLoader(t, "").Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := batch.Photos[0].Caption; got != "café" {
		t.Fatalf("caption = %q, want café", got)
	}
}

func TestConvertCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "scans.csv", "name,taken_at,caption\nimg1,01/02/2020,hello\n")

	loader := newLoader(t, "/data")
	jsonPath, err := loader.ConvertCSV(csvPath)
	if err != nil {
		t.Fatalf("ConvertCSV: %v", err)
	}
	if !strings.HasSuffix(jsonPath, "scans.json") {
		t.Fatalf("converted filename = %q", jsonPath)
	}

	batch, err := loader.Load(jsonPath)
	if err != nil {
		t.Fatalf("Load of converted descriptor: %v", err)
	}

	if len(batch.Photos) != 1 {
		t.Fatalf("got %d photos", len(batch.Photos))
	}
	rec := batch.Photos[0]
	if !strings.HasSuffix(rec.Path, "img1.jpg") {
		t.Fatalf("path = %q", rec.Path)
	}
	if rec.TakenAt != "2020:01:02 12:00:00" {
		t.Fatalf("taken_at = %q, want 2020:01:02 12:00:00", rec.TakenAt)
	}
	if rec.Caption != "hello" {
		t.Fatalf("caption = %q", rec.Caption)
	}
	// already normalized by the converter; must not be converted again
	if rec.UTC {
		t.Fatal("converted timestamps must not be re-normalized")
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.csv", "name,caption\nimg1,hello\n")

	_, err := newLoader(t, "/data").Load(path)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FormatError, got %v", err)
	}
	if ferr.Field != "taken_at" {
		t.Fatalf("FormatError.Field = %q", ferr.Field)
	}
}

func TestLoadCSVBadDate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.csv", "name,taken_at,caption\nimg1,2020-01-02,hello\n")

	if _, err := newLoader(t, "/data").Load(path); err == nil {
		t.Fatal("expected error for non-MM/DD/YYYY date")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := newLoader(t, "").Load("records.yaml"); err == nil {
		t.Fatal("expected error for unsupported descriptor type")
	}
}
