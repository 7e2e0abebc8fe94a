package main

import (
	"os"

	"github.com/rafabene/avantpro-core/cmd/catalog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
