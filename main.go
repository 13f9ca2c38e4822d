package main

import (
	"os"

	"github.com/jalad-shrimali/nrcell-audit/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
