package tags

import (
	"encoding/json"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/picker"
	"github.com/Paintersrp/zortex/internal/render"
	"github.com/Paintersrp/zortex/internal/state"
	"github.com/Paintersrp/zortex/pkg/flags"
)

func NewCmdTags(s *state.State) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags with the number of notes carrying each.",
		Long: heredoc.Doc(`
			Tags are "@name" lines. Case variants count as one tag.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := s.Index.Documents()
			if err != nil {
				return err
			}
			counts := index.TagCounts(docs)

			if flags.HandleJSON(cmd) {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(counts)
			}
			if interactive && picker.Interactive() && len(counts) > 0 {
				return render.BrowseTags(counts)
			}
			return render.New(cmd.OutOrStdout()).Tags(counts)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the tag table interactively")
	flags.AddJSON(cmd)

	return cmd
}
