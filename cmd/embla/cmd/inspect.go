package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/embla/pkg/store"
)

// previewBytes caps how much strand data inspect prints per entry.
const previewBytes = 16

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Inspect a snapshot file",
	Long: `Print the strands in a snapshot file: seed, length and a data
preview. The archive is not touched.

Example:
  embla inspect backup.snapshot`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reader, err := store.NewSnapshotReader(store.SnapshotReaderConfig{FilePath: args[0]})
		if err != nil {
			cmd.Printf("Error opening snapshot: %v\n", err)
			return
		}
		defer reader.Close()

		total := reader.Remaining()
		cmd.Printf("%s: %d strand(s)\n", args[0], total)

		index := 0
		iter := reader.Iterator()
		for iter.Next() {
			st := iter.Strand()
			preview := st.Bytes()[:st.Len()]
			suffix := ""
			if len(preview) > previewBytes {
				preview = preview[:previewBytes]
				suffix = "..."
			}
			cmd.Printf("[%d] seed=%#x length=%d data=%x%s\n", index, st.Seed(), st.Len(), preview, suffix)
			index++
		}
		if err := iter.Err(); err != nil {
			cmd.Printf("Error reading snapshot: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
