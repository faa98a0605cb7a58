package main

import (
	"os"

	"github.com/mwestin/accountd/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
