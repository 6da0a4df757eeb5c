package cmd

import (
	"fmt"
	"os"

	"github.com/so1ar-ec1ipse/pattern-search/internal/app"
	"github.com/so1ar-ec1ipse/pattern-search/internal/domain/dictionary"
	"github.com/spf13/cobra"
)

var (
	scanQuiet      bool
	scanCountOnly  bool
	scanLineNumber bool
	scanListSpans  bool
	scanDense      bool
	scanDictFile   string
	scanDictName   string
	scanDBPath     string
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <pattern-spec> [file ...]",
	Short: "Scan files or stdin for pattern occurrences",
	Long: "Builds an automaton from the pattern spec (patterns separated by '|' or whitespace)\n" +
		"or from --dict-file/--dict, then scans the given files (stdin when none) in one pass.\n" +
		"Exit codes follow grep: 0 match, 1 no match, 2 error.",
	Args:          cobra.ArbitraryArgs,
	RunE:          runScan,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := scanCmd.Flags()
	f.BoolVarP(&scanQuiet, "quiet", "q", false, "Quiet mode (exit code only)")
	f.BoolVarP(&scanCountOnly, "count", "c", false, "Print total occurrence count only")
	f.BoolVarP(&scanLineNumber, "line-number", "n", false, "Show line numbers")
	f.BoolVarP(&scanListSpans, "spans", "s", false, "Print pattern and byte offsets per occurrence")
	f.BoolVar(&scanDense, "dense", false, "Use the byte-table automaton (faster scan, more memory)")
	f.StringVarP(&scanDictFile, "dict-file", "f", "", "Read patterns from file (one per line, # comments)")
	f.StringVar(&scanDictName, "dict", "", "Read patterns from a stored dictionary")
	f.StringVar(&scanDBPath, "db", "", "Dictionary database path (default ~/.psearch/dicts.db)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, files, err := scanConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "psearch: %v\n", err)
		return scanExit{2}
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "psearch: %v\n", err)
		return scanExit{2}
	}
	defer a.Close()

	scanner := app.NewScanner(a.Matcher())
	var result *app.ScanResult
	if len(files) == 0 {
		result, err = scanner.ScanReader("", os.Stdin)
	} else {
		result, err = scanner.ScanFiles(files)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "psearch: %v\n", err)
		return scanExit{2}
	}

	printScanResult(result, len(files) > 0)

	if result.MatchCount == 0 {
		return scanExit{1}
	}
	return nil
}

// scanConfig resolves the pattern source and file list from flags + args.
// Without --dict-file/--dict the first positional argument is the pattern spec.
func scanConfig(args []string) (app.Config, []string, error) {
	cfg := app.Config{
		DictFile: scanDictFile,
		Dense:    scanDense,
	}
	files := args

	if scanDictFile == "" && scanDictName != "" {
		cfg.DBPath = scanDBPath
		if cfg.DBPath == "" {
			cfg.DBPath = defaultDBPath()
		}
		cfg.DictName = scanDictName
	} else if scanDictFile == "" {
		if len(args) == 0 {
			return cfg, nil, fmt.Errorf("missing pattern spec (or use --dict-file / --dict)")
		}
		cfg.Patterns = dictionary.Parse(args[0])
		if len(cfg.Patterns) == 0 {
			return cfg, nil, fmt.Errorf("pattern spec %q contains no patterns", args[0])
		}
		files = args[1:]
	}
	return cfg, files, nil
}

func printScanResult(result *app.ScanResult, withFile bool) {
	if scanQuiet {
		return
	}
	if scanCountOnly {
		fmt.Println(result.MatchCount)
		return
	}
	for _, lm := range result.Lines {
		prefix := ""
		if withFile {
			prefix = lm.File + ":"
		}
		if scanLineNumber {
			prefix += fmt.Sprintf("%d:", lm.Line)
		}
		fmt.Printf("%s%s\n", prefix, lm.Text)
		if scanListSpans {
			for _, m := range lm.Matches {
				fmt.Printf("  %s @ %d-%d\n", m.Pattern, m.Start, m.End)
			}
		}
	}
}
