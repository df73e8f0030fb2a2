package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/termfx/cppfstr/core"
	"github.com/termfx/cppfstr/util"
)

// PrintResults emits per-file output according to the selected mode:
// JSON, unified diff, raw rewritten source, or the human summary.
func (r *Runner) PrintResults(w io.Writer, results []core.Result) {
	if r.opts.JSONOutput {
		b, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(w, string(b))
		return
	}

	for _, res := range results {
		if !res.Success {
			fmt.Fprintf(os.Stderr, "✗ %s: %s (%s)\n", res.File, res.Error, res.ErrorCode)
			continue
		}
		switch {
		case r.opts.ShowDiff && res.Changed():
			fmt.Fprint(w, util.UnifiedDiff(res.OriginalText, res.ModifiedText,
				res.File, r.opts.DiffContext, r.opts.ColorDiff))
		case r.opts.Stdout:
			fmt.Fprint(w, res.ModifiedText)
		}
	}

	if !r.opts.Stdout && !r.opts.ShowDiff {
		fmt.Fprint(os.Stderr, Summary(results))
	}
}
