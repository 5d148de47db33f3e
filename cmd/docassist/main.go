// Command docassist is the document assistant CLI.
//
// It wires the workflow engine to a SQLite session store, a YAML
// document corpus, and the Claude CLI model client.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
