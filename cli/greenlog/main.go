package main

import (
	"os"

	greenlogcmder "github.com/papercomputeco/greenlog/cmd/greenlog"
)

func main() {
	cmd := greenlogcmder.NewGreenlogCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
