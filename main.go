package main

import (
	"os"

	"github.com/IWTDPLZZZ/Habit-Tracker/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
