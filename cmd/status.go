package cmd

import (
	"fmt"

	"github.com/illarion/adbtool/internal/adb"
	"github.com/illarion/adbtool/internal/keyring"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how the database was opened",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *adb.Store) error {
			keys, err := s.ListKeys()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Database: %s (%s)\n", s.Path(), cfg.Engine)
			fmt.Fprintf(w, "Records:  %d\n", len(keys))
			if s.Native() {
				fmt.Fprintln(w, "Key:      OS secure storage")
			} else {
				fmt.Fprintf(w, "Key:      %s (confirmed by %s)\n", s.Candidate(), s.Method())
			}
			if keyring.HasSerial(s.Path()) {
				fmt.Fprintln(w, "Keyring:  serial remembered")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
