package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived strands",
	Long: `List every strand in the archive with its seed and length.

Example:
  embla list`,
	Run: func(cmd *cobra.Command, args []string) {
		archive, err := openArchive(cmd)
		if err != nil {
			cmd.Printf("Error opening archive: %v\n", err)
			return
		}
		defer archive.Close()

		ids, err := archive.List()
		if err != nil {
			cmd.Printf("Error listing strands: %v\n", err)
			return
		}

		for _, id := range ids {
			st, err := archive.Read(id)
			if err != nil {
				cmd.Printf("Error reading strand %s: %v\n", id, err)
				return
			}
			cmd.Printf("%s  seed=%#x  length=%d\n", id, st.Seed(), st.Len())
		}
		cmd.Printf("%d strand(s)\n", len(ids))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
