package cmd

import (
	"fmt"

	"github.com/illarion/adbtool/internal/adb"
	"github.com/illarion/adbtool/internal/valuefmt"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all keys and values in the database",
	Long: `List all keys and values in the database. Values that are not
printable text are shown in hex.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *adb.Store) error {
			entries, err := s.ListEntries()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, e := range entries {
				name := displayKey(e.Key)
				if valuefmt.IsPrintable(e.Value) {
					fmt.Fprintf(w, "%s = %s\n", name, e.Value)
				} else {
					fmt.Fprintf(w, "%s (hex) = %s\n", name, valuefmt.Encode(valuefmt.Hex, e.Value))
				}
			}
			return nil
		})
	},
}

var listKeysCmd = &cobra.Command{
	Use:   "list-keys",
	Short: "List all keys in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *adb.Store) error {
			keys, err := s.ListKeys()
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), displayKey(k))
			}
			return nil
		})
	},
}

// displayKey strips the prefix byte, quoting keys that lack it
func displayKey(key []byte) string {
	name, err := adb.TrimKeyPrefix(key)
	if err != nil {
		return fmt.Sprintf("%q", key)
	}
	return name
}

func init() {
	rootCmd.AddCommand(listCmd, listKeysCmd)
}
