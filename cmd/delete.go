package cmd

import (
	"github.com/illarion/adbtool/internal/adb"
	"github.com/spf13/cobra"
)

var deleteKey string

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *adb.Store) error {
			return s.DeleteKey(adb.PrefixKey(deleteKey))
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteKey, "key", "", "key to delete (without the prefix byte)")
	deleteCmd.MarkFlagRequired("key")
}
