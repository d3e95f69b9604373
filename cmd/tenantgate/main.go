// Command tenantgate runs the entitlement service and its maintenance tasks.
package main

import (
	"fmt"
	"os"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
