package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/adbtool/internal/adb"
	"github.com/illarion/adbtool/internal/valuefmt"
	"github.com/spf13/cobra"
)

var (
	readKey       string
	readFormat    valuefmt.Format
	readValueFile string
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the value of a key",
	Example: `  adbtool read --key serviceHost
  adbtool read --key privateKey --format hex --value-file key.hex`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := formatOrDefault(cmd, readFormat)
		return withStore(func(s *adb.Store) error {
			value, err := s.ReadKey(adb.PrefixKey(readKey))
			if err != nil {
				return err
			}

			out := valuefmt.Encode(format, value)
			if readValueFile != "" {
				if err := os.WriteFile(readValueFile, []byte(out), 0600); err != nil {
					return fmt.Errorf("failed to write %s: %w", readValueFile, err)
				}
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

// formatOrDefault prefers an explicit --format over the configured one
func formatOrDefault(cmd *cobra.Command, f valuefmt.Format) valuefmt.Format {
	if cmd.Flags().Changed("format") {
		return f
	}
	return cfg.Format
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().StringVar(&readKey, "key", "", "key to read (without the prefix byte)")
	readCmd.Flags().Var(&readFormat, "format", "output encoding ('raw', 'hex')")
	readCmd.Flags().StringVar(&readValueFile, "value-file", "", "write the value to this file instead of stdout")
	readCmd.MarkFlagRequired("key")
}
