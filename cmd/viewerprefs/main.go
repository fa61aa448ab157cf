// Command viewerprefs reads and writes viewer preferences from the terminal.
// Preferences live in a SQLite file and a cookie jar inside the data directory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
