package cmd

import (
	"os"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a strand's data",
	Long: `Fetch a strand from the archive and write its data bytes to stdout,
or to a file with --output.

Example:
  embla get 2QvJp9mzXKwTOV7R4spNFAGiQc3 --output genome.bin`,
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

		st, err := archive.Read(id)
		if err != nil {
			cmd.Printf("Error reading strand: %v\n", err)
			return
		}

		output, _ := cmd.Flags().GetString("output")
		data := st.Bytes()[:st.Len()]
		if output != "" {
			if err := os.WriteFile(output, data, 0644); err != nil {
				cmd.Printf("Error writing output file: %v\n", err)
				return
			}
			cmd.Printf("Wrote %d bytes (seed %#x) to %s\n", st.Len(), st.Seed(), output)
			return
		}

		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			cmd.Printf("Error writing output: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringP("output", "o", "", "Write strand data to this file instead of stdout")
}
