package mcp

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	zmcp "github.com/Paintersrp/zortex/internal/mcp"
	"github.com/Paintersrp/zortex/internal/state"
)

func NewCmdMCP(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the notes as MCP tools over stdio.",
		Long: heredoc.Doc(`
			Runs a Model Context Protocol server on stdin and stdout with the tools
			search, resolve, link and record_selection.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Watch(); err != nil {
				return err
			}
			return zmcp.Serve(s)
		},
	}
}
