// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storj.io/common/cfgstruct"
	"storj.io/common/fpath"
	"storj.io/common/process"
	"storj.io/tracker/hostenv"
	"storj.io/tracker/session"
	"storj.io/tracker/tracker"
	"storj.io/tracker/transport"
)

var (
	rootCmd = &cobra.Command{
		Use:   "tracker",
		Short: "Send tracking events",
	}
	setupCmd = &cobra.Command{
		Use:         "setup",
		Short:       "Create config files",
		RunE:        cmdSetup,
		Annotations: map[string]string{"type": "setup"},
	}
	eventCmd = &cobra.Command{
		Use:   "event NAME [KEY=VALUE...]",
		Short: "Send an event",
		Args:  cobra.MinimumNArgs(1),
		RunE:  cmdEvent,
	}
	messageCmd = &cobra.Command{
		Use:   "message TEXT",
		Short: "Send a log message",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdMessage,
	}
	metricCmd = &cobra.Command{
		Use:   "metric NAME VALUE",
		Short: "Send a metric value",
		Args:  cobra.ExactArgs(2),
		RunE:  cmdMetric,
	}
	exceptionCmd = &cobra.Command{
		Use:   "exception MESSAGE",
		Short: "Send an exception",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdException,
	}
	pushCmd = &cobra.Command{
		Use:   "push",
		Short: "Send items read from stdin, one JSON object or string per line",
		Args:  cobra.NoArgs,
		RunE:  cmdPush,
	}
	timeCmd = &cobra.Command{
		Use:   "time NAME -- COMMAND [ARGS...]",
		Short: "Run a command and send its duration as a metric",
		Args:  cobra.MinimumNArgs(2),
		RunE:  cmdTime,
	}
	sessionCmd = &cobra.Command{
		Use:   "session",
		Short: "Print the session identifier",
		Args:  cobra.NoArgs,
		RunE:  cmdSession,
	}
	confDir string

	runCfg   Config
	setupCfg Config

	messageLevel string
)

// Config is the tracker command configuration.
type Config struct {
	Tracker   tracker.Config
	Transport transport.Config
	Session   session.Config
	Context   hostenv.Config

	CloseTimeout time.Duration `help:"how long to wait for in-flight tracking requests before exiting" default:"5s"`
}

func cmdSetup(cmd *cobra.Command, args []string) (err error) {
	setupDir, err := filepath.Abs(confDir)
	if err != nil {
		return err
	}

	valid, _ := fpath.IsValidSetupDir(setupDir)
	if !valid {
		return fmt.Errorf("tracker configuration already exists (%v)", setupDir)
	}

	err = os.MkdirAll(setupDir, 0700)
	if err != nil {
		return err
	}

	return process.SaveConfig(cmd, filepath.Join(setupDir, "config.yaml"))
}

func init() {
	defaultConfDir := fpath.ApplicationDir("storj", "tracker")
	cfgstruct.SetupFlag(zap.L(), rootCmd, &confDir, "config-dir", defaultConfDir, "main directory for tracker configuration")
	defaults := cfgstruct.DefaultsFlag(rootCmd)

	messageCmd.Flags().StringVar(&messageLevel, "level", "info", "level of the message")

	rootCmd.AddCommand(setupCmd)
	process.Bind(setupCmd, &setupCfg, defaults, cfgstruct.ConfDir(confDir), cfgstruct.SetupMode())

	for _, cmd := range []*cobra.Command{eventCmd, messageCmd, metricCmd, exceptionCmd, pushCmd, timeCmd, sessionCmd} {
		rootCmd.AddCommand(cmd)
		process.Bind(cmd, &runCfg, defaults, cfgstruct.ConfDir(confDir))
	}
}

func main() {
	process.Exec(rootCmd)
}
