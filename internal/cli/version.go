package cli

import (
	"fmt"

	"askseer-mcp/internal/adapter/mcpserver"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "askseer %s (%s %s)\n", Version, mcpserver.ServerName, mcpserver.ServerVersion)
			return err
		},
	}
}
