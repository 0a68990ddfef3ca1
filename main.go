package main

import (
	"os"

	"github.com/maelgrv/spotflex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
