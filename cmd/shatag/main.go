package main

import (
	"os"

	"github.com/ZanzyTHEbar/shatag-go/shatag/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
