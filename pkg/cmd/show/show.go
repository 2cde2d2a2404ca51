package show

import (
	"errors"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/zortex/internal/link"
	"github.com/Paintersrp/zortex/internal/picker"
	"github.com/Paintersrp/zortex/internal/render"
	"github.com/Paintersrp/zortex/internal/resolver"
	"github.com/Paintersrp/zortex/internal/state"
	"github.com/Paintersrp/zortex/pkg/cmd/resolve"
	"github.com/Paintersrp/zortex/pkg/flags"
)

func NewCmdShow(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [link]",
		Short: "Print the sections a link points to.",
		Long: heredoc.Doc(`
			Resolves the link and prints each target section, rendered as markdown
			when writing to a terminal.
		`),
		Example: heredoc.Doc(`
			zortex show "[Recipes/#Breakfast]"
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			l, ok := link.Parse(raw)
			if !ok {
				return errors.New("not a link: " + raw)
			}

			p := render.New(cmd.OutOrStdout())
			p.Notes = s.Notes

			matches, err := s.Resolver.Resolve(l, flags.HandleCurrent(cmd))
			if err != nil {
				var nm *resolver.NoMatchError
				if errors.As(err, &nm) {
					p.NoMatch(nm)
					return resolve.ErrNothing
				}
				return err
			}

			if flags.HandlePick(cmd) && picker.Interactive() && len(matches) > 1 {
				m, err := picker.Match(matches)
				if err != nil {
					if errors.Is(err, picker.ErrAborted) {
						return nil
					}
					return err
				}
				matches = []resolver.Match{m}
			}

			for _, m := range matches {
				doc, err := s.Index.Get(m.Path)
				if err != nil {
					return err
				}
				if err := p.Excerpt(doc, m.Line); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.AddCurrent(cmd)
	flags.AddPick(cmd, "Choose among several targets interactively")

	return cmd
}
