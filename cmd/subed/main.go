package main

import (
	"os"

	"github.com/otsaloma/gaupol-sub002/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
