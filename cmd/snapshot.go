package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/illarion/adbtool/internal/adb"
	"github.com/illarion/adbtool/internal/storage"
	"github.com/spf13/cobra"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Copy the database into a single snapshot file",
	Long: `Copy every record of the database, still encrypted, into a single
BBolt file. The snapshot can be inspected later with --engine bolt --path FILE
using the serial of the original machine.`,
	Example: `  adbtool snapshot --out adb.snapshot
  adbtool --engine bolt --path adb.snapshot list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(snapshotOut); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", snapshotOut)
		}

		return withStore(func(s *adb.Store) error {
			dst, err := storage.OpenBolt(snapshotOut, storage.BoltOptions{Create: true})
			if err != nil {
				return err
			}

			n, err := s.Export(dst)
			if err == nil {
				err = dst.SetSnapshotMeta(storage.SnapshotMeta{
					ID:      uuid.NewString(),
					Created: time.Now().UTC(),
					Source:  s.Path(),
					Records: n,
				})
			}
			if cerr := dst.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(snapshotOut)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Copied %d records to %s\n", n, snapshotOut)
			return nil
		})
	},
}

var snapshotInfoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Show where a snapshot came from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := storage.OpenBolt(args[0], storage.BoltOptions{})
		if err != nil {
			return err
		}
		defer b.Close()

		meta, err := b.GetSnapshotMeta()
		if errors.Is(err, storage.ErrNoSnapshotMeta) {
			return fmt.Errorf("%s is not an adbtool snapshot", args[0])
		}
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID:      %s\n", meta.ID)
		fmt.Fprintf(w, "Created: %s\n", meta.Created.Format(time.RFC3339))
		fmt.Fprintf(w, "Source:  %s\n", meta.Source)
		fmt.Fprintf(w, "Records: %d\n", meta.Records)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotInfoCmd)

	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "snapshot file to create")
	snapshotCmd.MarkFlagRequired("out")
}
