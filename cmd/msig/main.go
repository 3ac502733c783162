package main

import (
	"os"

	"github.com/stellarsig/msig/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
