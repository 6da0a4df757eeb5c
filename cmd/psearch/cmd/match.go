package cmd

import (
	"fmt"
	"os"

	"github.com/so1ar-ec1ipse/pattern-search/internal/adapters/socket"
	"github.com/so1ar-ec1ipse/pattern-search/internal/app"
	"github.com/so1ar-ec1ipse/pattern-search/internal/domain/dictionary"
	"github.com/spf13/cobra"
)

var (
	matchSpans  bool
	matchDense  bool
	matchDaemon bool
	matchDict   string
	matchDB     string
	matchFile   string
)

var matchCmd = &cobra.Command{
	Use:   "match [flags] <pattern-spec> <text>",
	Short: "Match patterns against a literal text argument",
	Long: "Reports every pattern occurrence in the text, overlapping occurrences included,\n" +
		"in scan order. With --daemon the text is sent to a running psearch daemon instead\n" +
		"of building a local automaton.",
	Args:          cobra.RangeArgs(1, 2),
	RunE:          runMatch,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := matchCmd.Flags()
	f.BoolVarP(&matchSpans, "spans", "s", false, "Print byte offsets per occurrence")
	f.BoolVar(&matchDense, "dense", false, "Use the byte-table automaton")
	f.BoolVar(&matchDaemon, "daemon", false, "Query the running daemon instead of building locally")
	f.StringVar(&matchDict, "dict", "", "Read patterns from a stored dictionary")
	f.StringVar(&matchDB, "db", "", "Dictionary database path (default ~/.psearch/dicts.db)")
	f.StringVarP(&matchFile, "dict-file", "f", "", "Read patterns from file")
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matchDaemon {
		return runMatchDaemon(args)
	}

	cfg := app.Config{Dense: matchDense, DictFile: matchFile}
	var text string
	switch {
	case matchFile != "" || matchDict != "":
		if matchDict != "" && matchFile == "" {
			cfg.DBPath = matchDB
			if cfg.DBPath == "" {
				cfg.DBPath = defaultDBPath()
			}
			cfg.DictName = matchDict
		}
		if len(args) != 1 {
			return usageErr("match --dict/--dict-file takes exactly one text argument")
		}
		text = args[0]
	default:
		if len(args) != 2 {
			return usageErr("match takes a pattern spec and a text argument")
		}
		cfg.Patterns = dictionary.Parse(args[0])
		if len(cfg.Patterns) == 0 {
			return usageErr(fmt.Sprintf("pattern spec %q contains no patterns", args[0]))
		}
		text = args[1]
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "psearch: %v\n", err)
		return scanExit{2}
	}
	defer a.Close()

	found := a.Matcher().Find(text)
	if matchSpans {
		for _, m := range found {
			fmt.Printf("%s @ %d-%d\n", m.Pattern, m.Start, m.End)
		}
	} else {
		for _, m := range found {
			fmt.Println(m.Pattern)
		}
	}

	if len(found) == 0 {
		return scanExit{1}
	}
	return nil
}

func runMatchDaemon(args []string) error {
	if len(args) != 1 {
		return usageErr("match --daemon takes exactly one text argument")
	}
	source := matchFile
	if source == "" {
		db := matchDB
		if db == "" {
			db = defaultDBPath()
		}
		source = db + ":" + matchDict
	}
	client := socket.NewClient(socket.SocketPath(source))
	result, err := client.Match(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "psearch: %v\n", err)
		return scanExit{2}
	}

	if matchSpans {
		for _, m := range result.Matches {
			fmt.Printf("%s @ %d-%d\n", m.Pattern, m.Start, m.End)
		}
	} else {
		for _, m := range result.Matches {
			fmt.Println(m.Pattern)
		}
	}
	if result.Count == 0 {
		return scanExit{1}
	}
	return nil
}

func usageErr(msg string) error {
	fmt.Fprintf(os.Stderr, "psearch: %s\n", msg)
	return scanExit{2}
}
