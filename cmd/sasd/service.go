// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/kardianos/service"
)

const (
	serviceName        = "sasd"
	serviceDisplayName = "Session Authentication Daemon"
	serviceDescription = "Authenticates local client sessions over loopback TCP."
)

// program adapts the daemon to the service manager's start/stop
// callbacks. Start returns once the listener is bound, so configuration
// and listen errors are reported from Start and serving happens in the
// background.
type program struct {
	options *options
	stderr  io.Writer
	logger  *slog.Logger
	cancel  context.CancelFunc
	done    chan error
}

func (p *program) Start(service.Service) error {
	daemon, logger, err := newDaemon(p.options, p.stderr)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- daemon.Serve(ctx) }()

	select {
	case <-daemon.Ready():
	case err := <-done:
		cancel()
		return err
	}
	p.logger = logger
	p.cancel = cancel
	p.done = done
	return nil
}

func (p *program) Stop(service.Service) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	err := <-p.done
	p.logger.Info("sasd stopped", "error", err)
	return err
}

// serviceConfig describes the installed service. The service manager
// starts the binary as "sasd [flags] service run" with the flags given
// at install time; the config path is made absolute because the
// manager's working directory is not ours.
func serviceConfig(opts *options) (*service.Config, error) {
	if opts.configPath == "" {
		return nil, usageError("service install requires --config")
	}
	configPath, err := filepath.Abs(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving --config: %w", err)
	}

	arguments := []string{
		"--config", configPath,
		"--log-level", opts.logLevel,
		"--log-format", "json",
		"--max-connections-per-second", strconv.FormatUint(opts.connectionsPerSecond, 10),
		"--idle-timeout", opts.idleTimeout.String(),
	}
	if opts.profile != "" {
		arguments = append(arguments, "--profile", opts.profile)
	}
	if opts.address != "" {
		arguments = append(arguments, "--address", opts.address)
	}
	arguments = append(arguments, "service", "run")

	return &service.Config{
		Name:        serviceName,
		DisplayName: serviceDisplayName,
		Description: serviceDescription,
		Arguments:   arguments,
	}, nil
}

func controlService(opts *options, action string, stdout, stderr io.Writer) error {
	switch action {
	case "install", "uninstall", "start", "stop", "run":
	default:
		return usageError("unknown service action %q", action)
	}

	config := &service.Config{Name: serviceName}
	if action == "install" || action == "run" {
		var err error
		if config, err = serviceConfig(opts); err != nil {
			return err
		}
	}

	prg := &program{options: opts, stderr: stderr}
	daemon, err := service.New(prg, config)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}

	switch action {
	case "run":
		return daemon.Run()
	case "install":
		err = daemon.Install()
	case "uninstall":
		err = daemon.Uninstall()
	case "start":
		err = daemon.Start()
	case "stop":
		err = daemon.Stop()
	}
	if err != nil {
		return fmt.Errorf("service %s: %w", action, err)
	}
	fmt.Fprintf(stdout, "service %s: %s done\n", serviceName, action)
	return nil
}
