package cli

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/termfx/cppfstr/core"
	"github.com/termfx/cppfstr/db"
	"github.com/termfx/cppfstr/models"
)

// recordHistory persists the run and its per-file outcomes to the local
// sqlite store. History is best effort and never fails the run.
func (r *Runner) recordHistory(results []core.Result) error {
	gdb, err := db.Connect(r.opts.HistoryDB, r.opts.Verbose)
	if err != nil {
		return err
	}

	now := time.Now()
	run := models.Run{
		Argv:        r.opts.Argv,
		Std:         r.opts.Frontend.Std,
		FilesCount:  len(results),
		FailedCount: Failed(results),
		FinishedAt:  &now,
	}
	for _, res := range results {
		diags, _ := json.Marshal(res.Diagnostics)
		run.Files = append(run.Files, models.FileRun{
			Path:         res.File,
			OutPath:      res.OutPath,
			Success:      res.Success,
			Records:      res.Records,
			Enums:        res.Enums,
			Skipped:      res.Skipped,
			Diagnostics:  datatypes.JSON(diags),
			OriginalSHA1: res.OriginalSHA1,
			ModifiedSHA1: res.ModifiedSHA1,
		})
	}
	return gdb.Create(&run).Error
}
