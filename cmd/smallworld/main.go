package main

import (
	"os"

	"github.com/hupe1980/smallworld/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
