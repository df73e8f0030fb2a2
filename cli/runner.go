// Package cli orchestrates the per-file pipeline across the inputs
// requested on the command line. Files are independent: a failure on
// one never stops the others.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/termfx/cppfstr/core"
	"github.com/termfx/cppfstr/frontend"
	"github.com/termfx/cppfstr/splice"
	"github.com/termfx/cppfstr/synth"
	"github.com/termfx/cppfstr/util"
	"github.com/termfx/cppfstr/walker"
)

// Options configure one run.
type Options struct {
	Frontend    frontend.Options
	Output      string
	Suffix      string
	Stdout      bool
	DryRun      bool
	ShowDiff    bool
	DiffContext int
	ColorDiff   bool
	JSONOutput  bool
	Verbose     bool
	Workers     int
	History     bool
	HistoryDB   string
	Argv        string
}

// Runner encapsulates the application's execution logic.
type Runner struct {
	opts   Options
	single bool
}

// NewRunner builds a runner from resolved options.
func NewRunner(opts Options) *Runner {
	return &Runner{opts: opts}
}

// Run processes every input file and returns per-file results in input
// order. The returned error covers run-level problems only; per-file
// failures live in the results.
func (r *Runner) Run(ctx context.Context, files []string) ([]core.Result, error) {
	files = util.ExpandGlobs(files)
	if len(files) == 0 {
		return nil, core.CLIError{Code: core.ECConfigError, Message: "no input files"}
	}
	r.single = len(files) == 1

	results := make([]core.Result, len(files))
	jobs := make(chan int)

	workers := r.opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// tree-sitter parsers are not safe for concurrent use, one
			// per worker.
			parser := frontend.New(r.opts.Frontend)
			for idx := range jobs {
				results[idx] = r.processFile(ctx, parser, files[idx])
			}
		}()
	}

	for i := range files {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if r.opts.History {
		if err := r.recordHistory(results); err != nil {
			log.Warnf("history not recorded: %v", err)
		}
	}
	return results, nil
}

// processFile runs the whole pipeline for one translation unit: parse,
// walk, synthesise, splice, write. The semantic tree is released before
// any output is produced.
func (r *Runner) processFile(ctx context.Context, parser *frontend.Parser, path string) core.Result {
	res := core.Result{File: path}

	src, err := os.ReadFile(path)
	if err != nil {
		return fail(res, core.ECReadError, err)
	}
	res.OriginalText = string(src)
	res.OriginalSHA1 = util.SHA1Hex(src)

	tree, diags, err := parser.Parse(ctx, src)
	res.Diagnostics = diags
	if err != nil || core.Fatal(diags) {
		if err == nil {
			err = core.ErrParseFailed
		}
		if tree != nil {
			tree.Close()
		}
		return fail(res, core.ECParse, err)
	}

	decls, walkDiags := walker.Collect(tree.RootNode(), src, path)
	tree.Close()
	res.Diagnostics = append(res.Diagnostics, walkDiags...)
	res.Skipped = len(walkDiags)
	for _, d := range walkDiags {
		log.Debugf("%s:%s", path, d)
	}

	var plan splice.Plan
	for _, d := range decls {
		switch {
		case d.Record != nil:
			plan.Add(d.Record.InsertAt, d.Seq, splice.KindRecord, synth.Record(d.Record))
			res.Records++
		case d.Enum != nil:
			plan.Add(d.Enum.InsertAt, d.Seq, splice.KindEnum, synth.Enum(d.Enum))
			res.Enums++
		}
	}
	res.FragmentCount = len(plan.Entries)

	if plan.Empty() {
		res.ModifiedText = res.OriginalText
		res.ModifiedSHA1 = res.OriginalSHA1
		res.Success = true
		return res
	}

	out, err := plan.Apply(src)
	if err != nil {
		if errors.Is(err, core.ErrInvariant) {
			return fail(res, core.ECInvariant, err)
		}
		return fail(res, core.ECUnknown, err)
	}
	res.ModifiedText = string(out)
	res.ModifiedSHA1 = util.SHA1Hex(out)
	res.Success = true

	if r.opts.DryRun || r.opts.Stdout || r.opts.ShowDiff {
		return res
	}

	outPath := r.outPathFor(path)
	if err := util.WriteFileAtomic(outPath, out, 0o644); err != nil {
		return fail(res, core.ECWriteError, err)
	}
	res.OutPath = outPath
	res.WroteOutput = true
	return res
}

// outPathFor picks the destination for a rewritten file: the explicit
// -o target for a single input, inside -o when it is a directory, and
// a suffixed sibling of the input otherwise.
func (r *Runner) outPathFor(path string) string {
	sibling := strings.TrimSuffix(path, filepath.Ext(path)) + r.opts.Suffix
	if r.opts.Output == "" {
		return sibling
	}
	if info, err := os.Stat(r.opts.Output); err == nil && info.IsDir() {
		return filepath.Join(r.opts.Output, filepath.Base(sibling))
	}
	if r.single {
		return r.opts.Output
	}
	return sibling
}

func fail(res core.Result, code core.ErrorCode, err error) core.Result {
	res.Success = false
	res.ErrorCode = code
	res.Error = err.Error()
	return res
}

// Failed counts unsuccessful results.
func Failed(results []core.Result) int {
	n := 0
	for _, r := range results {
		if !r.Success {
			n++
		}
	}
	return n
}

// Summary renders the per-file diagnostic table printed at the end of
// a run.
func Summary(results []core.Result) string {
	var b strings.Builder
	for _, res := range results {
		mark := "✓"
		if !res.Success {
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s — %d records, %d enums", mark, res.File, res.Records, res.Enums)
		if res.Skipped > 0 {
			fmt.Fprintf(&b, ", %d skipped", res.Skipped)
		}
		if res.Error != "" {
			fmt.Fprintf(&b, " (%s: %s)", res.ErrorCode, res.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}
