// Package cmd implements the adbtool commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/illarion/adbtool/internal/adb"
	"github.com/illarion/adbtool/internal/config"
	"github.com/illarion/adbtool/internal/identity"
	"github.com/illarion/adbtool/internal/keyring"
	"github.com/illarion/adbtool/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "0.1.0"

var (
	v       = config.New()
	cfg     *config.Config
	logger  *slog.Logger
	cfgFile string
	useADB  bool
	useUDB  bool
)

var rootCmd = &cobra.Command{
	Use:   "adbtool",
	Short: "Read and modify CrashPlan ADB and UDB databases",
	Long: `adbtool reads and edits the encrypted settings databases kept by the
CrashPlan / Code42 backup agent, for when the agent's own tools are not
available.

The agent must be stopped first, since it holds a lock on the database.
The obfuscation key is found automatically from this machine's serial
number; use --mac-serial or --linux-serial when working on a database
copied from another machine.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			v.SetConfigFile(cfgFile)
		}

		var err error
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}
		switch {
		case useADB:
			cfg.Database = config.DatabaseADB
		case useUDB:
			cfg.Database = config.DatabaseUDB
		}

		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return nil
	},
}

// Execute runs the command line and exits non-zero on failure
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		HandleError(err)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./adbtool.yaml, $HOME/.adbtool or /etc/adbtool)")
	flags.BoolVar(&useADB, "adb", false, "operate on the adb database (default)")
	flags.BoolVar(&useUDB, "udb", false, "operate on the udb database")
	flags.String("path", "", "path to the 'adb' or 'udb' directory (omit to locate automatically)")
	flags.String("mac-serial", "", "serial number of the Mac the database belongs to")
	flags.String("linux-serial", "", "machine ID of the Linux machine the database belongs to")
	flags.String("engine", config.EngineLevelDB, "storage engine: leveldb, or bolt for snapshots")
	flags.String("comparator-name", storage.DefaultComparerName, "LevelDB comparator name recorded in the database")
	flags.BoolP("verbose", "v", false, "log key discovery details")
	rootCmd.MarkFlagsMutuallyExclusive("adb", "udb")

	for key, flag := range map[string]string{
		"path":            "path",
		"mac_serial":      "mac-serial",
		"linux_serial":    "linux-serial",
		"engine":          "engine",
		"comparator_name": "comparator-name",
		"verbose":         "verbose",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
		}
	}
}

// databasePath resolves the database the command operates on
func databasePath() (string, error) {
	return cfg.ResolvePath(runtime.GOOS, os.Getenv)
}

// storeOptions builds open options from flags, config and the keyring
func storeOptions(dbPath string) adb.Options {
	opts := adb.Options{
		Overrides: identity.Overrides{
			MacSerial:   cfg.MacSerial,
			LinuxSerial: cfg.LinuxSerial,
		},
		Logger: logger,
	}

	if opts.Overrides == (identity.Overrides{}) {
		if serial, err := keyring.GetSerial(dbPath); err == nil {
			logger.Debug("using serial remembered in keyring", "platform", serial.Platform)
			opts.Provider = serial
		}
	}

	switch cfg.Engine {
	case config.EngineBolt:
		opts.Engine = adb.BoltOpener()
	default:
		opts.Engine = adb.LevelDBOpener(storage.LevelDBOptions{ComparerName: cfg.ComparatorName})
	}
	return opts
}

// withStore opens the configured database for the duration of fn
func withStore(fn func(*adb.Store) error) error {
	dbPath, err := databasePath()
	if err != nil {
		return err
	}
	return adb.With(dbPath, storeOptions(dbPath), fn)
}
