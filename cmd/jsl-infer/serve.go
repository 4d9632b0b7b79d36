package main

import (
	"github.com/spf13/cobra"

	"github.com/usestring/jsl-infer/internal/mcp"
	"github.com/usestring/jsl-infer/pkg/mcpsrv"
)

func newServeCmd(root *inferOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `serve exposes schema inference to MCP clients over stdio: the
jsl_infer_schema and jsl_validate_records tools, the
jsl-infer://schema/{id} resources, and the infer_schema_workflow prompt.

Configuration is read from the environment (LOG_LEVEL, LOG_FILE,
MAX_TOOL_RECORDS, TIMESTAMP_CACHE_SIZE, SCHEMA_STORE_SIZE, ...).`,
		Args: cobra.NoArgs,
		// The server installs its own logger.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			mcp.Version = version

			server, err := mcpsrv.NewServer(mcpsrv.WithLogLevel(root.logLevel))
			if err != nil {
				return err
			}
			defer server.Close()

			return server.Run(cmd.Context())
		},
	}
}
