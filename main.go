package main

import (
	"os"

	"github.com/optimapped/optimapped/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
