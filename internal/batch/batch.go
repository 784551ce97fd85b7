// photosync ⸻ internal/batch/batch.go
// sequential batch processing with per-item results

package batch

import (
	"context"
	"fmt"
	"os"

	"photosync/internal/descriptor"
	"photosync/internal/metadata"
	"photosync/internal/timestamp"
	"photosync/internal/util"
)

const (
	StatusEdited  = "edited"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// ItemResult records the outcome for one record.
type ItemResult struct {
	Path   string
	Status string
	Err    string
}

// Report accumulates per-item outcomes for a whole run. A batch never
// aborts because of one bad item; the report is how callers tell a clean
// run from an imperfect one.
type Report struct {
	Items   []ItemResult
	Edited  int
	Skipped int
	Failed  int
}

func (r *Report) add(item ItemResult) {
	r.Items = append(r.Items, item)
	switch item.Status {
	case StatusEdited:
		r.Edited++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}

func (r *Report) Summary() string {
	return fmt.Sprintf("%d edited, %d skipped, %d failed", r.Edited, r.Skipped, r.Failed)
}

// Processor walks a loaded batch in input order and applies metadata one
// file at a time.
type Processor struct {
	Norm   *timestamp.Normalizer
	Writer metadata.Writer
	Log    *util.Logger
}

// Process iterates all records. Missing files are skipped silently,
// per-item failures are logged and recorded, and processing continues.
// The returned error is non-nil when any item failed, or when the
// context was cancelled between items (never mid-write).
func (p *Processor) Process(ctx context.Context, b *descriptor.Batch) (*Report, error) {
	report := &Report{}

	for _, rec := range b.Photos {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		p.processPhoto(report, rec)
	}

	for _, rec := range b.Videos {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		p.processVideo(report, rec)
	}

	if report.Failed > 0 {
		return report, fmt.Errorf("%d of %d records failed", report.Failed, b.Len())
	}

	return report, nil
}

func (p *Processor) processPhoto(report *Report, rec descriptor.Record) {
	if _, err := os.Stat(rec.Path); err != nil {
		p.Log.Debug("Skipping missing file - %s", rec.Path)
		report.add(ItemResult{Path: rec.Path, Status: StatusSkipped})
		return
	}

	// present but unwritable fails the item, unlike a missing file
	if err := util.ValidatePath(rec.Path); err != nil {
		p.Log.Error("Unusable file %s: %v", rec.Path, err)
		report.add(ItemResult{Path: rec.Path, Status: StatusFailed, Err: err.Error()})
		return
	}

	takenAt, err := p.normalize(rec)
	if err != nil {
		p.Log.Error("Unparsable timestamp for %s: %v", rec.Path, err)
		report.add(ItemResult{Path: rec.Path, Status: StatusFailed, Err: err.Error()})
		return
	}

	// social exports occasionally list video payloads among photos
	if metadata.DetectKind(rec.Path) == metadata.KindVideo {
		p.write(report, rec.Path, func() error {
			return p.Writer.WriteVideo(rec.Path, takenAt)
		})
		return
	}

	p.Log.Info("Processing photo - %s", rec.Path)
	p.write(report, rec.Path, func() error {
		return p.Writer.WritePhoto(rec.Path, takenAt, rec.Caption)
	})
}

func (p *Processor) processVideo(report *Report, rec descriptor.Record) {
	if _, err := os.Stat(rec.Path); err != nil {
		p.Log.Debug("Skipping missing file - %s", rec.Path)
		report.add(ItemResult{Path: rec.Path, Status: StatusSkipped})
		return
	}

	if err := util.ValidatePath(rec.Path); err != nil {
		p.Log.Error("Unusable file %s: %v", rec.Path, err)
		report.add(ItemResult{Path: rec.Path, Status: StatusFailed, Err: err.Error()})
		return
	}

	takenAt, err := p.normalize(rec)
	if err != nil {
		p.Log.Error("Unparsable timestamp for %s: %v", rec.Path, err)
		report.add(ItemResult{Path: rec.Path, Status: StatusFailed, Err: err.Error()})
		return
	}

	p.Log.Info("Processing video - %s", rec.Path)
	p.write(report, rec.Path, func() error {
		return p.Writer.WriteVideo(rec.Path, takenAt)
	})
}

func (p *Processor) write(report *Report, path string, fn func() error) {
	if err := fn(); err != nil {
		p.Log.Error("Metadata write failed for %s: %v", path, err)
		report.add(ItemResult{Path: path, Status: StatusFailed, Err: err.Error()})
		return
	}
	report.add(ItemResult{Path: path, Status: StatusEdited})
}

func (p *Processor) normalize(rec descriptor.Record) (string, error) {
	if rec.UTC {
		return p.Norm.FromUTC(rec.TakenAt)
	}
	if err := timestamp.Validate(rec.TakenAt); err != nil {
		return "", err
	}
	return rec.TakenAt, nil
}
