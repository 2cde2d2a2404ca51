package resolve

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/zortex/internal/picker"
	"github.com/Paintersrp/zortex/internal/render"
	"github.com/Paintersrp/zortex/internal/resolver"
	"github.com/Paintersrp/zortex/internal/state"
	"github.com/Paintersrp/zortex/pkg/flags"
)

func NewCmdResolve(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resolve [link]",
		Aliases: []string{"r", "follow"},
		Short:   "Resolve a link to file locations.",
		Long: heredoc.Doc(`
			Prints one "path:line:column" row per target of the link. A link that
			starts with an article name and has a single target is a direct jump;
			anything else lists every target.

			Component sigils: none for an article, # heading, * bold heading,
			: label, @ tag, - list item and % text query.
		`),
		Example: heredoc.Doc(`
			zortex resolve "[Recipes/#Breakfast/:Steps]"
			zortex resolve "[/#Todo]" --current inbox.zortex
			zortex resolve "[@urgent]" --pick
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := render.New(cmd.OutOrStdout())
			p.Notes = s.Notes

			nav := &resolver.Navigator{
				Resolver:  s.Resolver,
				Notifier:  Notifier{W: cmd.ErrOrStderr()},
				Presenter: &Presenter{Printer: p, Pick: flags.HandlePick(cmd) && picker.Interactive()},
			}

			policy, err := nav.Follow(strings.Join(args, " "), flags.HandleCurrent(cmd))
			if err != nil {
				return err
			}
			if policy == resolver.None {
				return ErrNothing
			}
			return nil
		},
	}

	flags.AddCurrent(cmd)
	flags.AddPick(cmd, "Choose among several targets interactively")

	return cmd
}

// ErrNothing is returned when the argument was not a link or matched nothing.
var ErrNothing = errors.New("nothing to open")

// Notifier writes resolver messages to W.
type Notifier struct {
	W io.Writer
}

func (n Notifier) Notify(msg string) {
	fmt.Fprintln(n.W, msg)
}

// Presenter prints resolution results, optionally letting the user pick one
// of several.
type Presenter struct {
	Printer *render.Printer
	Pick    bool
	// Chosen is the target printed last.
	Chosen []resolver.Match
}

func (p *Presenter) Jump(m resolver.Match) error {
	p.Chosen = []resolver.Match{m}
	return p.Printer.Matches(p.Chosen)
}

func (p *Presenter) List(ms []resolver.Match) error {
	if p.Pick && len(ms) > 1 {
		m, err := picker.Match(ms)
		if err != nil {
			if errors.Is(err, picker.ErrAborted) {
				return nil
			}
			return err
		}
		return p.Jump(m)
	}
	p.Chosen = ms
	return p.Printer.Matches(ms)
}
