package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/embla/pkg/storage"
	"github.com/ssargent/embla/pkg/store"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a snapshot file into the archive",
	Long: `Archive every strand in a snapshot file under fresh ids.

Example:
  embla import backup.snapshot`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		archive, err := openArchive(cmd)
		if err != nil {
			cmd.Printf("Error opening archive: %v\n", err)
			return
		}
		defer archive.Close()

		count, err := importSnapshot(archive, args[0])
		if err != nil {
			cmd.Printf("Error importing snapshot: %v\n", err)
			return
		}

		cmd.Printf("Imported %d strand(s) from %s\n", count, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importSnapshot streams a snapshot file into the archive and returns how
// many strands it created.
func importSnapshot(archive *storage.Archive, path string) (int, error) {
	reader, err := store.NewSnapshotReader(store.SnapshotReaderConfig{FilePath: path})
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	count := 0
	iter := reader.Iterator()
	for iter.Next() {
		if _, err := archive.Create(iter.Strand()); err != nil {
			return count, fmt.Errorf("archive strand %d: %w", count, err)
		}
		count++
	}
	if err := iter.Err(); err != nil {
		return count, err
	}
	return count, nil
}
