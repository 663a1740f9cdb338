// Command cms2-ls is a Language Server Protocol server for CMS-2.
package main

import (
	"os"

	"github.com/cwbudde/go-cms2ls/cmd/cms2-ls/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
