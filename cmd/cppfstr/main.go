package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/termfx/cppfstr/cli"
	"github.com/termfx/cppfstr/config"
	"github.com/termfx/cppfstr/core"
)

// Version is set at link time with -ldflags "-X main.Version=...";
// a plain go build or go install leaves it empty.
var Version string

func main() {
	settings := config.Load()
	root := newRootCmd(settings)
	root.SetArgs(normalizeArgs(os.Args[1:]))
	if err := root.Execute(); err != nil {
		if _, ok := err.(core.CLIError); ok {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(settings config.Settings) *cobra.Command {
	var opts cli.Options
	var noHistory bool

	root := &cobra.Command{
		Use:   "cppfstr <input-file> [<input-file>...]",
		Short: "Inject to_string and enum formatters into C++ sources.",
		Long: "cppfstr parses C++ translation units and splices formatting\n" +
			"boilerplate into them: a to_string() member for every record and a\n" +
			"format_as()/formatter specialisation for every enum.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Verbose || settings.Debug {
				log.SetLevel(log.DebugLevel)
			}
			if opts.Frontend.Std == "" {
				opts.Frontend.Std = settings.Std
			}
			opts.History = opts.History && !noHistory
			opts.Argv = strings.Join(os.Args[1:], " ")

			runner := cli.NewRunner(opts)
			results, err := runner.Run(cmd.Context(), args)
			if err != nil {
				return err
			}
			runner.PrintResults(cmd.OutOrStdout(), results)
			if failed := cli.Failed(results); failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}

	addFlags(root.Flags(), &opts, &noHistory, settings)
	opts.HistoryDB = settings.HistoryDB

	root.PreRunE = func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "cppfstr %s\n", version())
			os.Exit(0)
		}
		return nil
	}
	return root
}

func addFlags(fs *pflag.FlagSet, opts *cli.Options, noHistory *bool, settings config.Settings) {
	fs.StringArrayVarP(&opts.Frontend.IncludeDirs, "include-dir", "I", nil,
		"Include directory (repeatable, -Idir form accepted).")
	fs.StringArrayVarP(&opts.Frontend.Defines, "define", "D", nil,
		"Macro definition (repeatable, -DFOO=1 form accepted).")
	fs.StringVar(&opts.Frontend.Std, "std", "",
		"Language standard (-std=c++17 is accepted too).")
	fs.StringVarP(&opts.Output, "output", "o", "",
		"Output file (single input) or directory.")
	fs.StringVar(&opts.Suffix, "suffix", settings.Suffix,
		"Suffix for sibling output files.")
	fs.BoolVar(&opts.Stdout, "stdout", false,
		"Print rewritten sources to stdout instead of writing files.")
	fs.BoolVarP(&opts.DryRun, "dry-run", "d", false,
		"Process without writing any files.")
	fs.BoolVar(&opts.ShowDiff, "diff", false,
		"Show a unified diff of the changes instead of writing.")
	fs.IntVarP(&opts.DiffContext, "diff-context", "C", 3,
		"Lines of context for the diff.")
	fs.BoolVar(&opts.ColorDiff, "color", false,
		"Colorize the diff output.")
	fs.BoolVarP(&opts.JSONOutput, "json", "j", false,
		"Output results in JSON format.")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false,
		"Enable verbose output.")
	fs.IntVarP(&opts.Workers, "workers", "w", 0,
		"Concurrent file workers, 0 means one per CPU.")
	fs.BoolVar(&opts.History, "history", settings.History,
		"Record the run in the local history database.")
	fs.BoolVar(noHistory, "no-history", false,
		"Disable the history database for this run.")
	fs.BoolP("version", "V", false, "Print version and exit.")
}

func version() string {
	if Version != "" {
		return Version
	}
	return "(devel)"
}

// normalizeArgs rewrites the compiler-style -std=c++17 spelling into
// the long-flag form cobra understands. -I and -D attached forms are
// native pflag shorthands and pass through untouched.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "-std="):
			out = append(out, "--std="+strings.TrimPrefix(a, "-std="))
		case a == "-std":
			out = append(out, "--std")
		default:
			out = append(out, a)
		}
	}
	return out
}
