// Command qdmictl is a thin operator CLI over the client façade: list
// loaded devices, probe their properties, and drive one job through its
// full lifecycle. It is deliberately single-shot rather than a daemon —
// each invocation loads the driver, does one thing, and shuts down —
// since the reference simulator keeps all job state in memory and has
// no persistence story beyond the optional job ledger.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mqss-project/qdmi-go/config"
	"github.com/mqss-project/qdmi-go/devicesim"
	"github.com/mqss-project/qdmi-go/driver"
	"github.com/mqss-project/qdmi-go/internal/qlog"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	confPath   string
	noBuiltin  bool
	persistJob bool
}

func main() {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "qdmictl",
		Short: "Inspect and drive QDMI-managed quantum devices",
		Long: heredoc.Doc(`
			qdmictl loads the device plugins configured by QDMI_CONF (or
			--conf), plus the built-in reference simulator unless
			--no-builtin-sim is given, and exposes their device contract
			from the command line.`),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.confPath, "conf", "", "QDMI_CONF path (defaults to $QDMI_CONF or ./qdmi.conf)")
	root.PersistentFlags().BoolVar(&flags.noBuiltin, "no-builtin-sim", false, "do not register the built-in reference simulator")
	root.PersistentFlags().BoolVar(&flags.persistJob, "job-ledger", false, "persist submitted jobs to the on-disk job ledger")

	root.AddCommand(newDevicesCmd(flags))
	root.AddCommand(newPropsCmd(flags))
	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newJobsCmd(flags))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDriver builds a driver.Driver per flags: the configured dynamic
// plugins, plus the built-in devicesim device unless suppressed.
func openDriver(ctx context.Context, flags *rootFlags) (*driver.Driver, error) {
	cfg, err := config.Default()
	if err != nil {
		return nil, err
	}
	qlog.SetLevel(cfg.LogLevel)
	if cfg.LogType == "json" {
		qlog.L.SetFormatter(&logrus.JSONFormatter{})
	}

	path := flags.confPath
	if path == "" {
		path = driver.ConfigPath()
	}

	var opts []driver.Option
	if flags.persistJob {
		opts = append(opts, driver.WithJobStore(cfg.RuntimeDir))
	}

	var d *driver.Driver
	if _, err := os.Stat(path); err == nil {
		d, err = driver.New(ctx, path, opts...)
		if err != nil {
			return nil, err
		}
		for _, le := range d.LoadErrors() {
			fmt.Fprintf(os.Stderr, "warning: %s: %s: %s\n", le.LibPath, le.Status, le.Err)
		}
	} else {
		registry := driver.NewRegistry()
		d = &driver.Driver{Registry: registry, Sessions: driver.NewSessionManager(registry)}
	}

	if !flags.noBuiltin {
		if _, status := d.Registry.RegisterStatic(ctx, "devicesim-builtin", devicesim.New(nil), qdmi.ModeReadWrite); status.IsError() {
			return nil, fmt.Errorf("could not register built-in simulator: %s", status)
		}
	}

	return d, nil
}
