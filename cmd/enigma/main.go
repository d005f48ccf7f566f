package main

import (
	"fmt"
	"os"

	"github.com/yan-zaretskiy/enigma-gui/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
