package main

import (
	"os"

	"github.com/harrison/snippetcheck/internal/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
