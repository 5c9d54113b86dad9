// -- cmd/serve.go --
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/internal/observability"
	"github.com/RatnakarVise/db-rule-3320010-assess-llm/internal/server"
)

// serveCmd starts the HTTP assessment API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP assessment API",
	Long: `Starts the HTTP server exposing POST /assess-copa-3320010 and
GET /health, forwarding per-unit summaries to the configured model provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		srv, err := server.NewServer(appCfg, logger)
		if err != nil {
			return err
		}
		return srv.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
