package cache

import "github.com/spf13/cobra"

// Command groups the sub-commands that manage repository
// checkouts kept by the --cache flag.
var Command = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached repository checkouts",
}

func init() {
	Command.AddCommand(cleanCmd)
}
