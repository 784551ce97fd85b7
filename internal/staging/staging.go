// photosync ⸻ internal/staging/staging.go
// copying matched files into the upload staging directory

package staging

import (
	"fmt"
	"os"
	"path/filepath"

	"photosync/internal/descriptor"
	"photosync/internal/util"
)

// Result counts the outcome of one staging run.
type Result struct {
	Copied  int
	Skipped int
	Failed  int
}

func (r Result) String() string {
	return fmt.Sprintf("%d copied, %d skipped, %d failed", r.Copied, r.Skipped, r.Failed)
}

// Copier flattens a batch's existing files into one directory so
// downstream upload tooling can pick them up. Metadata is untouched.
type Copier struct {
	CopyRoot string
	Log      *util.Logger
}

// CopyBatch copies every record whose file exists. Copy failures are
// logged and the run continues; missing sources are skipped silently.
func (c *Copier) CopyBatch(b *descriptor.Batch) Result {
	var res Result

	for _, rec := range append(append([]descriptor.Record{}, b.Photos...), b.Videos...) {
		if _, err := os.Stat(rec.Path); err != nil {
			c.Log.Debug("Skipping missing file - %s", rec.Path)
			res.Skipped++
			continue
		}

		dst := filepath.Join(c.CopyRoot, filepath.Base(rec.Path))
		c.Log.Info("Copying file - %s", rec.Path)

		if err := util.SafeCopy(rec.Path, dst); err != nil {
			c.Log.Error("Copy failed for %s: %v", rec.Path, err)
			res.Failed++
			continue
		}
		res.Copied++
	}

	return res
}
