/* Replay a BLE RSSI log through the proximity pipeline. */
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/keylessanchor/rssiprox/proxrssi"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Drive proxrssi.Instance from a recorded or synthetic
 *		stream of (t_ms, rssi_dbm) samples, one pair per input
 *		line, logging every state transition.
 *
 * Usage:	rssisim [options] [file]
 *
 *		With no file argument, or "-", reads from stdin.
 *
 * Input format: two columns per line, t_ms,rssi_dbm. A header line
 *		whose first field is not an integer is skipped.
 *
 *---------------------------------------------------------------*/

func main() {
	var (
		configFile = pflag.StringP("config-file", "c", "", "YAML file overriding the default proximity parameters.")
		quiet      = pflag.BoolP("quiet", "q", false, "Only print state transitions, not every tick.")
		help       = pflag.BoolP("help", "h", false, "Display help text.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rssisim [options] [file]\n\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	var logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
	if *quiet {
		logger.SetLevel(log.InfoLevel)
	}

	params, err := loadConfig(*configFile)
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}

	ins, err := proxrssi.New(params, proxrssi.DefaultAlphaLUT())
	if err != nil {
		logger.Fatal("constructing instance", "err", err)
	}

	var input = os.Stdin

	if pflag.NArg() > 0 && pflag.Arg(0) != "-" {
		fp, err := os.Open(pflag.Arg(0)) //nolint:gosec
		if err != nil {
			logger.Fatal("opening input", "file", pflag.Arg(0), "err", err)
		}
		defer fp.Close() //nolint:errcheck

		input = fp
	}

	if err := run(ins, input, logger, !*quiet); err != nil {
		logger.Fatal("replay failed", "err", err)
	}
}

// run feeds every (t_ms, rssi_dbm) row in r through one PushRaw+Tick
// pair, in file order, logging the state at every event and
// optionally every tick.
func run(ins *proxrssi.Instance, r io.Reader, logger *log.Logger, verbose bool) error {
	var reader = csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var state = ins.State()

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading row: %w", err)
		}

		if len(fields) < 2 {
			continue
		}

		tMs64, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			continue // header row, or a blank/comment line
		}

		rssi64, err := strconv.ParseInt(fields[1], 10, 8)
		if err != nil {
			return fmt.Errorf("parsing rssi_dbm %q: %w", fields[1], err)
		}

		tMs := uint32(tMs64)
		rssiDbm := int8(rssi64)

		if err := ins.PushRaw(tMs, rssiDbm); err != nil {
			logger.Warn("rejected sample", "t_ms", tMs, "rssi_dbm", rssiDbm, "err", err)
			continue
		}

		ev, f := ins.Tick(tMs)

		if ev != proxrssi.EventNone {
			logger.Info("event", "t_ms", tMs, "event", ev, "state", ins.State(), "last_dbm", float64(f.LastQ4)/16)
		} else if newState := ins.State(); newState != state {
			logger.Info("state changed without event", "t_ms", tMs, "state", newState)
		} else if verbose {
			logger.Debug("tick", "t_ms", tMs, "state", ins.State(), "n", f.N)
		}

		state = ins.State()
	}

	return nil
}
