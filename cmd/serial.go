package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/illarion/adbtool/internal/adb"
	"github.com/illarion/adbtool/internal/discovery"
	"github.com/illarion/adbtool/internal/identity"
	"github.com/illarion/adbtool/internal/keyring"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var serialPlatform string

var serialCmd = &cobra.Command{
	Use:   "serial",
	Short: "Manage serial numbers remembered in the OS keyring",
	Long: `Remember the serial number a database belongs to, so that later
commands on that database don't need --mac-serial or --linux-serial.`,
}

var serialRememberCmd = &cobra.Command{
	Use:   "remember [SERIAL]",
	Short: "Verify a serial against the database and remember it",
	Example: `  adbtool --path ./adb serial remember C02XK1ABJG5J
  adbtool --path ./adb serial remember --platform linux`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value string
		if len(args) == 1 {
			value = args[0]
		} else {
			var err error
			value, err = promptSerial(cmd)
			if err != nil {
				return err
			}
		}

		serial := identity.Serial{Platform: identity.Platform(serialPlatform), Value: value}
		if _, err := serial.Identity(); err != nil {
			return err
		}

		dbPath, err := databasePath()
		if err != nil {
			return err
		}

		opts := storeOptions(dbPath)
		opts.Provider = serial
		opts.Overrides = identity.Overrides{}
		err = adb.With(dbPath, opts, func(s *adb.Store) error {
			if s.Candidate() != discovery.CandidateDerived {
				return fmt.Errorf("serial %q does not unlock %s", value, dbPath)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if err := keyring.SaveSerial(dbPath, serial); err != nil {
			return fmt.Errorf("failed to save to keyring: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Serial saved to keyring")
		return nil
	},
}

var serialForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the remembered serial",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := databasePath()
		if err != nil {
			return err
		}
		if err := keyring.DeleteSerial(dbPath); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No serial stored in keyring")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Serial removed from keyring")
		return nil
	},
}

var serialStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether a serial is remembered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := databasePath()
		if err != nil {
			return err
		}
		serial, err := keyring.GetSerial(dbPath)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No serial stored in keyring")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Serial stored in keyring (%s)\n", serial.Platform)
		return nil
	},
}

func promptSerial(cmd *cobra.Command) (string, error) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("no serial given and stdin is not a terminal")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Enter serial: ")
	value, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read serial: %w", err)
	}

	serial := strings.TrimSpace(string(value))
	if serial == "" {
		return "", fmt.Errorf("serial cannot be empty")
	}
	return serial, nil
}

func init() {
	rootCmd.AddCommand(serialCmd)
	serialCmd.AddCommand(serialRememberCmd, serialForgetCmd, serialStatusCmd)

	serialRememberCmd.Flags().StringVar(&serialPlatform, "platform", string(identity.PlatformMac), "platform the serial belongs to ('mac', 'linux')")
}
