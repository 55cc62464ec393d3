package main

import (
	"os"

	"github.com/go-compose/compose/cmd/composectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
