package main

import (
	"os"

	"github.com/polytope-labs/ismp-go/cmd/ismp/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
