package main

import (
	"github.com/sw33tLie/gridsync/cmd"
)

func main() {
	cmd.Execute()
}
