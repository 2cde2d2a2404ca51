package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/zortex/internal/constants"
	"github.com/Paintersrp/zortex/internal/state"
	"github.com/Paintersrp/zortex/pkg/cmd/history"
	"github.com/Paintersrp/zortex/pkg/cmd/link"
	"github.com/Paintersrp/zortex/pkg/cmd/mcp"
	"github.com/Paintersrp/zortex/pkg/cmd/resolve"
	"github.com/Paintersrp/zortex/pkg/cmd/search"
	"github.com/Paintersrp/zortex/pkg/cmd/serve"
	"github.com/Paintersrp/zortex/pkg/cmd/show"
	"github.com/Paintersrp/zortex/pkg/cmd/status"
	"github.com/Paintersrp/zortex/pkg/cmd/tags"
	"github.com/Paintersrp/zortex/pkg/cmd/workspace"
	"github.com/Paintersrp/zortex/pkg/flags"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     constants.AppName,
		Version: constants.Version,
		Short:   "Search, link and navigate structured zortex notes.",
		Long: heredoc.Doc(`
			zortex indexes a directory of structured notes and lets you search them
			section by section, resolve links between them and copy links to any line.

			Notes are plain text: "@@Name" lines name an article, "#" lines are
			headings, "**Bold**" lines and "Label:" lines open smaller sections and
			"@tag" lines tag the enclosing section.

			Links look like [Article/#Heading/:Label]; a leading "/" searches the
			current note only.
		`),
		Example: heredoc.Doc(`
			zortex search recipes breakfast eggs
			zortex resolve "[Recipes/#Breakfast]"
			zortex link recipes.zortex:12 --copy
		`),
		SilenceUsage: true,
	}

	flags.AddGlobal(cmd.PersistentFlags())

	cmd.AddCommand(
		search.NewCmdSearch(s),
		resolve.NewCmdResolve(s),
		show.NewCmdShow(s),
		link.NewCmdLink(s),
		tags.NewCmdTags(s),
		history.NewCmdHistory(s),
		status.NewCmdStatus(s),
		serve.NewCmdServe(s),
		mcp.NewCmdMCP(s),
		workspace.NewCmdWorkspace(s),
	)

	return cmd, nil
}
