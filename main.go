package main

import (
	"github.com/tcpspsuite/gridsubmit/cmd/cli"
)

func main() {
	cli.Execute()
}
