package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/illarion/adbtool/internal/adb"
	"github.com/illarion/adbtool/internal/config"
	"github.com/illarion/adbtool/internal/crypto"
	"github.com/illarion/adbtool/internal/discovery"
	"github.com/illarion/adbtool/internal/valuefmt"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	hintColor  = color.New(color.FgYellow)
)

// HandleError prints err with operator guidance and exits
func HandleError(err error) {
	printError(os.Stderr, err)
	os.Exit(1)
}

func printError(w io.Writer, err error) {
	var (
		openErr    *adb.OpenError
		decryptErr *adb.DecryptError
		formatErr  *valuefmt.FormatError
	)

	errorColor.Fprintf(w, "Error: ")
	fmt.Fprintf(w, "%s\n", err)

	switch {
	case errors.As(err, &openErr):
		fmt.Fprintln(w)
		if runtime.GOOS == "windows" {
			hintColor.Fprintln(w, "You may need to run using PsExec to have enough permission to read that directory.")
		} else {
			hintColor.Fprintln(w, "You may need to run using sudo to have enough permission to read that directory.")
		}
		hintColor.Fprintln(w, "Also check that the CrashPlan service is not running (it holds a lock on the database):")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  macOS   - sudo launchctl unload /Library/LaunchDaemons/com.code42.service.plist")
		fmt.Fprintln(w, "  Windows - net stop \"Code42 Service\"")
		fmt.Fprintln(w, "  Linux   - sudo /usr/local/crashplan/bin/service.sh stop")
	case errors.Is(err, discovery.ErrKeyDiscovery):
		hintColor.Fprintln(w, "Supply the serial of the machine the database came from with --mac-serial or --linux-serial.")
	case errors.As(err, &decryptErr), errors.Is(err, crypto.ErrBadPadding):
		hintColor.Fprintln(w, "The value does not decrypt with the discovered key, check your serial number.")
	case errors.Is(err, adb.ErrNotFound):
		hintColor.Fprintln(w, "Use 'adbtool list-keys' to see the keys in the database.")
	case errors.Is(err, config.ErrDatabaseNotFound):
		hintColor.Fprintln(w, "Pass --path, or --udb to look for the udb database instead.")
	case errors.As(err, &formatErr):
		hintColor.Fprintln(w, "Hex values must be an even number of hex digits.")
	}
}
