package cmd

import (
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a strand",
	Long: `Delete a strand from the archive.

Example:
  embla delete 2QvJp9mzXKwTOV7R4spNFAGiQc3`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			cmd.Printf("Error parsing id: %v\n", err)
			return
		}

		archive, err := openArchive(cmd)
		if err != nil {
			cmd.Printf("Error opening archive: %v\n", err)
			return
		}
		defer archive.Close()

		if err := archive.Delete(id); err != nil {
			cmd.Printf("Error deleting strand: %v\n", err)
			return
		}

		cmd.Printf("Successfully deleted strand '%s'\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
