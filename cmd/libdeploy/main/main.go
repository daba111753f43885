package main

import (
	"fmt"
	"os"

	"github.com/toolchainkit/libdeploy/cmd/libdeploy"
)

func main() {
	rootCmd := libdeploy.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
