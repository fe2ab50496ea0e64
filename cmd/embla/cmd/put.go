package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssargent/embla/pkg/strand"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Archive a file as a strand",
	Long: `Archive the contents of a file as a new strand and print its id.

The seed flag takes decimal or 0x-prefixed hex.

Example:
  embla put genome.bin --seed 0xBEEF`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rawSeed, _ := cmd.Flags().GetString("seed")
		seed, err := strconv.ParseUint(rawSeed, 0, 64)
		if err != nil {
			cmd.Printf("Error parsing seed: %v\n", err)
			return
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			cmd.Printf("Error reading file: %v\n", err)
			return
		}

		archive, err := openArchive(cmd)
		if err != nil {
			cmd.Printf("Error opening archive: %v\n", err)
			return
		}
		defer archive.Close()

		id, err := archive.Create(strand.FromBytes(seed, data))
		if err != nil {
			cmd.Printf("Error archiving strand: %v\n", err)
			return
		}

		cmd.Printf("%s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().String("seed", "0", "Seed for the new strand")
}
