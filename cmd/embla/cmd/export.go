package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/embla/pkg/storage"
	"github.com/ssargent/embla/pkg/store"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the archive to a snapshot file",
	Long: `Write every archived strand into a snapshot file.

Example:
  embla export backup.snapshot`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		archive, err := openArchive(cmd)
		if err != nil {
			cmd.Printf("Error opening archive: %v\n", err)
			return
		}
		defer archive.Close()

		count, err := exportSnapshot(archive, args[0])
		if err != nil {
			cmd.Printf("Error exporting snapshot: %v\n", err)
			return
		}

		cmd.Printf("Exported %d strand(s) to %s\n", count, args[0])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

// exportSnapshot streams every archived strand into a snapshot file and
// returns how many it wrote.
func exportSnapshot(archive *storage.Archive, path string) (int, error) {
	ids, err := archive.List()
	if err != nil {
		return 0, err
	}

	writer, err := store.NewSnapshotWriter(store.SnapshotWriterConfig{FilePath: path})
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		st, err := archive.Read(id)
		if err != nil {
			writer.Close()
			return 0, fmt.Errorf("read strand %s: %w", id, err)
		}
		if err := writer.Append(st); err != nil {
			writer.Close()
			return 0, fmt.Errorf("append strand %s: %w", id, err)
		}
	}

	if err := writer.Close(); err != nil {
		return 0, err
	}
	return len(ids), nil
}
