package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cms2-ls",
	Short: "CMS-2 language server",
	Long: `cms2-ls is a Language Server Protocol implementation for CMS-2,
the statement-oriented tactical-systems language described in M-5049.

It parses SYS-DD and SYS-PROC blocks, tables, types, procedures and
functions well enough to answer completion, hover, go-to-definition,
find-references and document-symbol requests over stdio.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging (to stderr, or to serve's --log-file when given)")
}
