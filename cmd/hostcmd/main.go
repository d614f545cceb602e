package main

import (
	"os"

	"github.com/msto63/hostcmd/cmd/hostcmd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
