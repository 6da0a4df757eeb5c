package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/so1ar-ec1ipse/pattern-search/internal/adapters/store"
	"github.com/so1ar-ec1ipse/pattern-search/internal/domain/dictionary"
	"github.com/so1ar-ec1ipse/pattern-search/internal/ports"
	"github.com/spf13/cobra"
)

var dictDBPath string

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage named pattern dictionaries",
}

var dictAddCmd = &cobra.Command{
	Use:   "add <name> <pattern-spec>",
	Short: "Create or replace a dictionary from an inline pattern spec",
	Args:  cobra.ExactArgs(2),
	RunE:  runDictAdd,
}

var dictImportCmd = &cobra.Command{
	Use:   "import <name> <pattern-file>",
	Short: "Create or replace a dictionary from a pattern file",
	Args:  cobra.ExactArgs(2),
	RunE:  runDictImport,
}

var dictListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored dictionaries",
	Args:  cobra.NoArgs,
	RunE:  runDictList,
}

var dictShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a dictionary's patterns",
	Args:  cobra.ExactArgs(1),
	RunE:  runDictShow,
}

var dictRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a dictionary",
	Args:  cobra.ExactArgs(1),
	RunE:  runDictRm,
}

func init() {
	dictCmd.PersistentFlags().StringVar(&dictDBPath, "db", "", "Dictionary database path (default ~/.psearch/dicts.db)")
	dictCmd.AddCommand(dictAddCmd)
	dictCmd.AddCommand(dictImportCmd)
	dictCmd.AddCommand(dictListCmd)
	dictCmd.AddCommand(dictShowCmd)
	dictCmd.AddCommand(dictRmCmd)
}

// openDictStore opens the dictionary database, creating its directory first.
func openDictStore() (*store.Store, error) {
	path := dictDBPath
	if path == "" {
		path = defaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return store.NewStore(path)
}

func runDictAdd(cmd *cobra.Command, args []string) error {
	name, spec := args[0], args[1]
	patterns := dictionary.Normalize(dictionary.Parse(spec))
	if len(patterns) == 0 {
		return fmt.Errorf("pattern spec %q contains no patterns", spec)
	}
	return saveDict(name, patterns)
}

func runDictImport(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]
	patterns, err := dictionary.LoadFile(path)
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		return fmt.Errorf("pattern file %s contains no patterns", path)
	}
	return saveDict(name, patterns)
}

func saveDict(name string, patterns []string) error {
	s, err := openDictStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Save(&ports.Dictionary{
		Name:      name,
		Patterns:  patterns,
		UpdatedAt: time.Now().Unix(),
	}); err != nil {
		return err
	}
	fmt.Printf("saved %q (%d patterns)\n", name, len(patterns))
	return nil
}

func runDictList(cmd *cobra.Command, args []string) error {
	s, err := openDictStore()
	if err != nil {
		return err
	}
	defer s.Close()

	names, err := s.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no dictionaries")
		return nil
	}
	for _, name := range names {
		dict, err := s.Load(name)
		if err != nil {
			return err
		}
		updated := "-"
		if dict.UpdatedAt > 0 {
			updated = time.Unix(dict.UpdatedAt, 0).Format("2006-01-02 15:04")
		}
		fmt.Printf("%-20s %5d patterns  %s\n", name, len(dict.Patterns), updated)
	}
	return nil
}

func runDictShow(cmd *cobra.Command, args []string) error {
	s, err := openDictStore()
	if err != nil {
		return err
	}
	defer s.Close()

	dict, err := s.Load(args[0])
	if err != nil {
		return err
	}
	if dict == nil {
		return fmt.Errorf("dictionary %q not found", args[0])
	}
	for _, p := range dict.Patterns {
		fmt.Println(p)
	}
	return nil
}

func runDictRm(cmd *cobra.Command, args []string) error {
	s, err := openDictStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %q\n", args[0])
	return nil
}
