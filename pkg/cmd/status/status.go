package status

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/zortex/internal/state"
)

func NewCmdStatus(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Index the notes and print a summary.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Index.Refresh(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if s.WorkspaceName != "" {
				fmt.Fprintf(out, "Workspace: %s\n", s.WorkspaceName)
			}
			fmt.Fprintf(out, "Notes: %s\n", s.Notes)
			fmt.Fprintln(out, s.StatusLine())
			return nil
		},
	}
}
