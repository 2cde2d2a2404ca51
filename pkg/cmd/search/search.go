package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/zortex/internal/picker"
	"github.com/Paintersrp/zortex/internal/render"
	engine "github.com/Paintersrp/zortex/internal/search"
	"github.com/Paintersrp/zortex/internal/state"
	"github.com/Paintersrp/zortex/pkg/flags"
)

func NewCmdSearch(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search [words...]",
		Aliases: []string{"s", "find"},
		Short:   "Search notes section by section.",
		Long: heredoc.Doc(`
			Each word narrows the search to the sections matched by the previous
			word. A single word matches the start of a word anywhere in the notes;
			with no words every note is listed, ordered by how recently and how
			often you used it. Matching ignores case.
		`),
		Example: heredoc.Doc(`
			zortex search recipes breakfast
			zortex search -p cal lim
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, args)
		},
	}

	flags.AddPick(cmd, "Pick a result interactively and record the choice")
	flags.AddLimit(cmd, 0)
	flags.AddJSON(cmd)

	return cmd
}

func run(cmd *cobra.Command, s *state.State, args []string) error {
	query := strings.Join(args, " ")
	tokens := engine.Tokenize(query)

	entries, err := s.Engine.Search(tokens)
	if err != nil {
		return err
	}
	if limit := flags.HandleLimit(cmd); limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	p := render.New(cmd.OutOrStdout())
	p.Notes = s.Notes

	if flags.HandlePick(cmd) && picker.Interactive() && len(entries) > 0 {
		chosen, err := picker.Entry(entries, query)
		if err != nil {
			if errors.Is(err, picker.ErrAborted) {
				return nil
			}
			return err
		}
		if _, err := s.History.Record(chosen.Selection(tokens)); err != nil {
			s.Log.Warn("failed to record selection", "error", err)
		}
		return p.Line(fmt.Sprintf("%s:%d", chosen.Path, chosen.Line))
	}

	if flags.HandleJSON(cmd) {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	return p.Results(entries)
}
