package main

import (
	"os"

	"github.com/keelvm/keel/cli"
)

func main() {
	ctl := cli.NewApp()
	if err := ctl.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
