// psearch is a multi-pattern exact string matcher.
// Single binary — build an Aho-Corasick automaton from a pattern set, then
// scan files, stdin, or daemon-served requests in one linear pass.
package main

import (
	"os"

	"github.com/so1ar-ec1ipse/pattern-search/cmd/psearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ScanExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
