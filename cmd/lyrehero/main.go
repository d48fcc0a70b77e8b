// Command lyrehero is the terminal reference client for the pitch-tutor
// engine: a Cobra command tree over a Bubble Tea TUI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
