package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/zortex/internal/config"
	"github.com/Paintersrp/zortex/internal/state"
)

func NewCmdWorkspace(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage named notes directories.",
		Long: heredoc.Doc(`
			A workspace is a notes directory with its own search tuning and history
			settings. Commands use the current workspace unless --workspace is given.
		`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if s.Config == nil {
				return errors.New("workspaces need a loaded configuration")
			}
			return nil
		},
	}

	cmd.AddCommand(
		newCmdList(s),
		newCmdShow(s),
		newCmdSwitch(s),
		newCmdAdd(s),
		newCmdRemove(s),
	)

	return cmd
}

func newCmdList(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspaces, marking the current one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range s.Config.WorkspaceNames() {
				marker := " "
				if name == s.Config.CurrentWorkspace {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-16s %s\n", marker, name, s.Config.Workspaces[name].NotesDir)
			}
			return nil
		},
	}
}

func newCmdShow(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Print a workspace's settings as YAML.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := s.Workspace
			if len(args) == 1 {
				var ok bool
				if ws, ok = s.Config.Workspaces[args[0]]; !ok {
					return fmt.Errorf("workspace %q does not exist", args[0])
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(ws); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newCmdSwitch(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "switch NAME",
		Short: "Make NAME the current workspace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if err := s.Config.SwitchWorkspace(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to workspace %q\n", name)
			return nil
		},
	}
}

func newCmdAdd(s *state.State) *cobra.Command {
	var dir string
	var makeCurrent bool

	cmd := &cobra.Command{
		Use:   "add NAME --dir DIR",
		Short: "Add a workspace copying the current search and history tuning.",
		Example: heredoc.Doc(`
			zortex workspace add work --dir ~/notes/work --current
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := notesDir(dir)
			if err != nil {
				return err
			}

			ws := cloneWorkspaceSettings(s.Workspace)
			ws.NotesDir = abs

			name := strings.TrimSpace(args[0])
			if err := s.Config.AddWorkspace(name, ws, makeCurrent); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added workspace %q at %s\n", name, abs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Notes directory of the new workspace")
	cmd.Flags().BoolVar(&makeCurrent, "current", false, "Switch to the new workspace")
	cmd.MarkFlagRequired("dir")

	return cmd
}

func newCmdRemove(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Forget a workspace. Its notes are left untouched.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if err := s.Config.RemoveWorkspace(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed workspace %q\n", name)
			return nil
		},
	}
}

// notesDir makes dir absolute and requires it to be an existing directory.
func notesDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", errors.New("notes directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("notes directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

// cloneWorkspaceSettings copies tuning from src. The history database is not
// shared between workspaces.
func cloneWorkspaceSettings(src *config.Workspace) *config.Workspace {
	if src == nil {
		return config.NewWorkspace("")
	}

	clone := *src
	clone.Extensions = append([]string(nil), src.Extensions...)
	clone.IgnoredFolders = append([]string(nil), src.IgnoredFolders...)
	clone.History.Database = ""
	return &clone
}
