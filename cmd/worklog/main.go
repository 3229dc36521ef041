// Command worklog is the command line client. It opens the same SQLite
// database as the server, so both can run side by side.
package main

import (
	"fmt"
	"os"

	"github.com/warp/worklog-engine/cli"
	"github.com/warp/worklog-engine/config"
	"github.com/warp/worklog-engine/logger"
	"github.com/warp/worklog-engine/stats"
	"github.com/warp/worklog-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("WORKLOG_CONFIG"))
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Warnings and above only.
	log, err := logger.New("warn", "console")
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := sqlite.New(cfg.Storage.Path, log.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	app := &cli.App{
		Sessions: store,
		Settings: store.SettingsView(),
		Location: loc,
		Labels:   stats.LabelsFor(cfg.Stats.Locale),
	}
	return cli.NewRootCmd(app).Execute()
}
