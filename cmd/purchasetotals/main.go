// Package main is the entry point for the purchasetotals service.
package main

import (
	"os"

	"github.com/aevon-lab/purchase-totals/cmd/purchasetotals/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
