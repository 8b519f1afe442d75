package main

import (
	"os"

	"forgeci/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
