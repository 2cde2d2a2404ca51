package history

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/zortex/internal/render"
	"github.com/Paintersrp/zortex/internal/state"
	"github.com/Paintersrp/zortex/pkg/flags"
)

func NewCmdHistory(s *state.State) *cobra.Command {
	var since string
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recorded search selections.",
		Long: heredoc.Doc(`
			Every result picked from a search is recorded and boosts that section
			and its parents in later searches. The boost fades with age.
		`),
		Example: heredoc.Doc(`
			zortex history --since yesterday
			zortex history --since "2024-03-01"
			zortex history --clear
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearAll {
				if err := s.History.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			}

			entries := s.History.Entries()
			if since != "" {
				t, err := ParseSince(since, time.Now())
				if err != nil {
					return err
				}
				entries = s.History.Since(t)
			}
			if limit := flags.HandleLimit(cmd); limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			return render.New(cmd.OutOrStdout()).History(entries)
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Only show selections after this date")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete every recorded selection")
	flags.AddLimit(cmd, 0)

	return cmd
}

// ParseSince accepts "today", "yesterday", a duration such as "36h" or any
// date dateparse understands, in local time.
func ParseSince(raw string, now time.Time) (time.Time, error) {
	switch raw {
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	case "yesterday":
		y, m, d := now.AddDate(0, 0, -1).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return now.Add(-d), nil
	}
	t, err := dateparse.ParseIn(raw, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since value %q: %w", raw, err)
	}
	return t, nil
}
