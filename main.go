package main

import (
	"os"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
