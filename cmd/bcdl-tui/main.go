// Command bcdl-tui is the interactive collection picker.
package main

import (
	"fmt"
	"os"

	"github.com/handiism/bcdl/internal/config"
	"github.com/handiism/bcdl/internal/tui"
)

func main() {
	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
