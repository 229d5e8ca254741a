// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/sasd/lib/logging"
	"github.com/bureau-foundation/sasd/lib/process"
	"github.com/bureau-foundation/sasd/lib/protocol"
	"github.com/bureau-foundation/sasd/lib/server"
	"github.com/bureau-foundation/sasd/lib/settings"
	"github.com/bureau-foundation/sasd/lib/version"
)

func main() {
	os.Exit(process.Report(os.Stderr, run(os.Args[1:], os.Stdout, os.Stderr)))
}

// options holds the parsed command line.
type options struct {
	configPath           string
	logLevel             string
	logFormat            string
	profile              string
	address              string
	connectionsPerSecond uint64
	idleTimeout          time.Duration
	showVersion          bool
}

func newFlagSet(stderr io.Writer) (*pflag.FlagSet, *options) {
	var opts options
	flagSet := pflag.NewFlagSet("sasd", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.configPath, "config", "", "settings file (default: $"+settings.EnvironmentVariable+")")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flagSet.StringVar(&opts.logFormat, "log-format", "auto", "log format: auto, text or json")
	flagSet.StringVar(&opts.profile, "profile", "", "handshake profile: direct, side-channel-1 or side-channel-2 (default: platform default)")
	flagSet.StringVar(&opts.address, "address", "", "listen (or probe) address (default: 127.0.0.1 on the configured port)")
	flagSet.Uint64Var(&opts.connectionsPerSecond, "max-connections-per-second", 10, "new connections accepted per peer per second, 0 for no limit")
	flagSet.DurationVar(&opts.idleTimeout, "idle-timeout", server.DefaultIdleTimeout, "close connections silent for this long")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "usage: sasd [flags] [run | probe | service install|uninstall|start|stop|run]\n\nflags:\n")
		flagSet.PrintDefaults()
	}
	return flagSet, &opts
}

func usageError(format string, args ...any) error {
	return &process.ExitError{Code: 2, Err: fmt.Errorf(format, args...)}
}

func run(args []string, stdout, stderr io.Writer) error {
	flagSet, opts := newFlagSet(stderr)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return &process.ExitError{Code: 2}
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "sasd %s\n", version.Full())
		return nil
	}

	command, rest := "run", flagSet.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	switch command {
	case "run":
		if len(rest) != 0 {
			return usageError("run takes no arguments, got %q", rest)
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, opts, stderr)

	case "probe":
		if len(rest) != 0 {
			return usageError("probe takes no arguments, got %q", rest)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return probe(ctx, opts, stdout)

	case "service":
		if len(rest) != 1 {
			return usageError("service needs one action: install, uninstall, start, stop or run")
		}
		return controlService(opts, rest[0], stdout, stderr)

	default:
		return usageError("unknown command %q", command)
	}
}

// loadSettings reads --config, or SASD_CONFIG when the flag is unset.
func loadSettings(opts *options) (*settings.Settings, error) {
	if opts.configPath != "" {
		return settings.LoadFile(opts.configPath)
	}
	return settings.Load()
}

func resolveProfile(opts *options) (protocol.Profile, error) {
	if opts.profile == "" {
		return protocol.DefaultProfile(), nil
	}
	return protocol.ProfileByName(opts.profile)
}

func newLogger(opts *options, stderr io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, usageError("--log-level: %w", err)
	}
	format, err := logging.ParseFormat(opts.logFormat)
	if err != nil {
		return nil, usageError("--log-format: %w", err)
	}
	if stderr == os.Stderr {
		return logging.New(level, format), nil
	}
	return logging.NewWriter(stderr, level, format), nil
}

// address returns --address or loopback on the configured port.
func address(opts *options, config *settings.Settings) string {
	if opts.address != "" {
		return opts.address
	}
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(int(config.Port())))
}

// newDaemon builds the server from the command line and settings file.
func newDaemon(opts *options, stderr io.Writer) (*server.Server, *slog.Logger, error) {
	logger, err := newLogger(opts, stderr)
	if err != nil {
		return nil, nil, err
	}
	config, err := loadSettings(opts)
	if err != nil {
		return nil, nil, err
	}
	profile, err := resolveProfile(opts)
	if err != nil {
		return nil, nil, usageError("--profile: %w", err)
	}

	daemon, err := server.New(server.Config{
		Settings:             config,
		Profile:              profile,
		Address:              address(opts, config),
		ConnectionsPerSecond: opts.connectionsPerSecond,
		IdleTimeout:          opts.idleTimeout,
		Logger:               logger,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("sasd starting",
		"version", version.Info(),
		"platform", config.Platform().String(),
		"port", config.Port(),
	)
	return daemon, logger, nil
}

// serve runs the daemon until ctx is cancelled.
func serve(ctx context.Context, opts *options, stderr io.Writer) error {
	daemon, logger, err := newDaemon(opts, stderr)
	if err != nil {
		return err
	}
	if err := daemon.Serve(ctx); err != nil {
		return err
	}
	logger.Info("sasd stopped")
	return nil
}
