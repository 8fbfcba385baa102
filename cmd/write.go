package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/illarion/adbtool/internal/adb"
	"github.com/illarion/adbtool/internal/valuefmt"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	writeKey       string
	writeValue     string
	writeValueFile string
	writeFormat    valuefmt.Format
	writeDiff      bool
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write a value to a key",
	Long: `Write a value to a key. The value is taken from --value, --value-file,
or standard input when neither is given.`,
	Example: `  adbtool write --key serviceHost --value central.example.com
  adbtool write --key privateKey --format hex --value-file key.hex
  echo -n 4282 | adbtool write --key servicePort --diff`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := formatOrDefault(cmd, writeFormat)

		input, err := readInput(cmd)
		if err != nil {
			return err
		}
		value, err := valuefmt.Decode(format, input)
		if err != nil {
			return err
		}

		return withStore(func(s *adb.Store) error {
			key := adb.PrefixKey(writeKey)

			if writeDiff {
				old, err := s.ReadKey(key)
				if err != nil && !errors.Is(err, adb.ErrNotFound) {
					return err
				}
				printDiff(cmd.OutOrStdout(), old, value)
			}

			return s.WriteKey(key, value)
		})
	},
}

func readInput(cmd *cobra.Command) ([]byte, error) {
	switch {
	case cmd.Flags().Changed("value"):
		return []byte(writeValue), nil
	case writeValueFile != "":
		data, err := os.ReadFile(writeValueFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", writeValueFile, err)
		}
		return data, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Reading value from stdin, finish with Ctrl-D:")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

func printDiff(w io.Writer, old, new []byte) {
	if valuefmt.IsPrintable(old) && valuefmt.IsPrintable(new) {
		fmt.Fprint(w, valuefmt.Diff(old, new))
		return
	}
	fmt.Fprintf(w, "binary value: %d -> %d bytes\n", len(old), len(new))
}

func init() {
	rootCmd.AddCommand(writeCmd)

	writeCmd.Flags().StringVar(&writeKey, "key", "", "key to write (without the prefix byte)")
	writeCmd.Flags().StringVar(&writeValue, "value", "", "value to write (omit to read from stdin)")
	writeCmd.Flags().StringVar(&writeValueFile, "value-file", "", "file to read the value from")
	writeCmd.Flags().Var(&writeFormat, "format", "input encoding ('raw', 'hex')")
	writeCmd.Flags().BoolVar(&writeDiff, "diff", false, "show how the value changes")
	writeCmd.MarkFlagRequired("key")
	writeCmd.MarkFlagsMutuallyExclusive("value", "value-file")
}
