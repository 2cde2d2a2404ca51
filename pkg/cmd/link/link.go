package link

import (
	"fmt"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	zlink "github.com/Paintersrp/zortex/internal/link"
	"github.com/Paintersrp/zortex/internal/state"
	"github.com/Paintersrp/zortex/pkg/cmd"
)

func NewCmdLink(s *state.State) *cobra.Command {
	var copyLink bool

	c := &cobra.Command{
		Use:     "link FILE[:LINE] [LINE]",
		Aliases: []string{"l"},
		Short:   "Print the link addressing a line of a note.",
		Long: heredoc.Doc(`
			Builds the link made of the note's article name, every section enclosing
			the line and, for a list item or plain line, the line itself.
		`),
		Example: heredoc.Doc(`
			zortex link recipes.zortex:12
			zortex link recipes.zortex 12 --copy
		`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(c *cobra.Command, args []string) error {
			file, line, err := cmd.ParseLocation(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				if line, err = strconv.Atoi(args[1]); err != nil || line < 1 {
					return fmt.Errorf("invalid line %q", args[1])
				}
			}

			path, err := cmd.ResolveNotePath(s, file)
			if err != nil {
				return err
			}
			doc, err := s.Index.Get(path)
			if err != nil {
				return err
			}
			if line > len(doc.Lines) {
				return fmt.Errorf("%s has %d lines", file, len(doc.Lines))
			}

			text := zlink.Build(doc.Tree, doc.Lines, line).String()
			if copyLink {
				if err := clipboard.WriteAll(text); err != nil {
					return fmt.Errorf("failed to copy link: %w", err)
				}
			}

			fmt.Fprintln(c.OutOrStdout(), text)
			return nil
		},
	}

	c.Flags().BoolVarP(&copyLink, "copy", "y", false, "Copy the link to the clipboard")

	return c
}
