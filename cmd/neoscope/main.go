package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/star/neoscope/internal/config"
	"github.com/star/neoscope/internal/database"
	"github.com/star/neoscope/internal/extract"
	"github.com/star/neoscope/internal/metrics"
)

// needsDatabase marks commands that require the datasets to be loaded first.
const needsDatabase = "needs-database"

// app is the state shared by all commands of one process.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *database.Database
	out    io.Writer
	errOut io.Writer
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "neoscope",
		Short: "Explore close approaches of near-Earth objects",
		Long: `neoscope links a catalog of near-Earth objects with the history of their
close approaches to Earth and answers inspection and search queries over it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newInspectCmd(a),
		newQueryCmd(a),
		newInteractiveCmd(a),
	)
	return root
}

// setup resolves configuration and, for commands that need it, loads the
// database.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(a.errOut)

	if cmd.Annotations[needsDatabase] != "true" {
		return nil
	}
	return a.load()
}

func (a *app) load() error {
	start := time.Now()

	neos, err := extract.LoadNEOs(a.cfg.NEOFile, a.logger)
	if err != nil {
		return fmt.Errorf("loading NEOs: %w", err)
	}
	approaches, err := extract.LoadApproaches(a.cfg.CADFile, a.logger)
	if err != nil {
		return fmt.Errorf("loading close approaches: %w", err)
	}

	db, err := database.New(neos, approaches, a.logger)
	if err != nil {
		a.logger.Error("invalid dataset", "neofile", a.cfg.NEOFile, "error", err)
		return fmt.Errorf("building database: %w", err)
	}
	a.db = db

	a.logger.Info("datasets loaded",
		"neos", humanize.Comma(int64(len(neos))),
		"approaches", humanize.Comma(int64(len(approaches))),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (a *app) finish() error {
	if a.cfg.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return err
	}
	a.logger.Debug("metrics written", "path", a.cfg.MetricsFile)
	return nil
}
