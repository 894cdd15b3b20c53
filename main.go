package main

import (
	"os"

	"github.com/aguepe1/Fleet-Simulator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
