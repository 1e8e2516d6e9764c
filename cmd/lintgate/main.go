package main

import (
	"os"

	"github.com/dshills/lintgate/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
