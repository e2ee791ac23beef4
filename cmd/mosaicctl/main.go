package main

import (
	"fmt"
	"os"

	"github.com/alanyang/insta-mosaic/cmd/mosaicctl/commands"
)

// Version information - set during build
var version = "dev"

func main() {
	if err := commands.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
