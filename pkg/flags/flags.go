package flags

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func AddPick(cmd *cobra.Command, usage string) {
	cmd.Flags().BoolP("pick", "p", false, usage)
}

func HandlePick(cmd *cobra.Command) bool {
	pick, err := cmd.Flags().GetBool("pick")
	if err != nil {
		fmt.Printf("error retrieving pick flag: %s\n", err)
		os.Exit(1)
	}
	return pick
}

func AddLimit(cmd *cobra.Command, def int) {
	cmd.Flags().IntP("limit", "n", def, "Maximum number of results, 0 for all")
}

func HandleLimit(cmd *cobra.Command) int {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		fmt.Printf("error retrieving limit flag: %s\n", err)
		os.Exit(1)
	}
	return limit
}

func AddCurrent(cmd *cobra.Command) {
	cmd.Flags().StringP(
		"current",
		"c",
		"",
		"Path of the note the link appears in, used by local links",
	)
}

func HandleCurrent(cmd *cobra.Command) string {
	current, err := cmd.Flags().GetString("current")
	if err != nil {
		fmt.Printf("error retrieving current flag: %s\n", err)
		os.Exit(1)
	}
	return current
}

func AddJSON(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Print results as JSON")
}

func HandleJSON(cmd *cobra.Command) bool {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		fmt.Printf("error retrieving json flag: %s\n", err)
		os.Exit(1)
	}
	return asJSON
}
