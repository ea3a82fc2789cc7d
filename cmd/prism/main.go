// prism is a terminal theme controller for Charm applications
package main

import (
	"os"

	"github.com/iiroan/prism/cmd/prism/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
