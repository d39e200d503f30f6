// ABOUTME: Entry point for the product-manager CLI and TUI
// ABOUTME: Terminal client for the product catalog REST API

package main

import (
	"fmt"
	"os"

	"github.com/markalston/product-manager/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
