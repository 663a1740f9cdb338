package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-cms2ls/internal/logx"
	"github.com/cwbudde/go-cms2ls/internal/lspserver"
	"github.com/spf13/cobra"
)

var logFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the language server over stdio",
	Long: `Start the CMS-2 language server, reading framed JSON-RPC requests
from stdin and writing responses to stdout, as an editor's LSP client
would invoke it.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&logFile, "log-file", "", "write server diagnostics to this file instead of stderr")
}

func runServe(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	logOut := os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		defer f.Close()
		logOut = f
	}

	log := logx.New(logOut)
	if verbose {
		log.Printf("starting cms2-ls %s", Version)
	}

	lspserver.Version = Version
	server := lspserver.New(os.Stdin, os.Stdout, log)
	return server.Run()
}
