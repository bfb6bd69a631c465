package main

import (
	"os"

	"github.com/rustyeddy/stockinsight/cmd/insight/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
