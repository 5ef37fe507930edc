// service.go integrates the daemon with the system service manager via
// github.com/kardianos/service, so it can run under systemd, launchd or
// the Windows SCM with proper Start/Stop handling.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kardianos/service"

	"coredump/core"
)

// Program implements service.Interface. It wraps the daemon's run
// function and adapts it to the Start/Stop lifecycle.
type Program struct {
	ctx    context.Context
	cancel context.CancelFunc
	exit   chan struct{}
}

// Start launches the daemon in a goroutine and returns immediately, as
// the service contract requires.
func (p *Program) Start(s service.Service) error {
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.exit = make(chan struct{})

	go func() {
		defer close(p.exit)
		run(p.ctx)
	}()

	return nil
}

// Stop signals shutdown and waits for the final flush to complete.
func (p *Program) Stop(s service.Service) error {
	p.cancel()

	select {
	case <-p.exit:
	case <-time.After(30 * time.Second):
		return fmt.Errorf("timeout waiting for service to stop")
	}
	return nil
}

// ServiceConfig returns the service manager registration.
func ServiceConfig() *service.Config {
	return &service.Config{
		Name:        "coredump",
		DisplayName: "CoreDump Activity Tracker",
		Description: "Tracks per-language editor activity and reports it to the CoreDump collector",
		Option: service.KeyValue{
			"StartType": "automatic",
		},
	}
}

// RunAsService runs the daemon under the service manager. Returns false
// when the process is running interactively and should start in the
// foreground instead.
func RunAsService() (bool, error) {
	s, err := service.New(&Program{}, ServiceConfig())
	if err != nil {
		return false, fmt.Errorf("failed to create service: %w", err)
	}

	if service.Interactive() {
		return false, nil
	}

	if err := s.Run(); err != nil {
		return true, fmt.Errorf("service run failed: %w", err)
	}
	return true, nil
}

// controlService performs one service control action by name.
func controlService(action string) error {
	s, err := service.New(&Program{}, ServiceConfig())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	switch action {
	case "install":
		err = s.Install()
	case "uninstall":
		err = s.Uninstall()
	case "start":
		err = s.Start()
	case "stop":
		err = s.Stop()
	case "restart":
		err = s.Restart()
	default:
		return fmt.Errorf("unknown service action: %s", action)
	}
	if err != nil {
		return fmt.Errorf("failed to %s service: %w", action, err)
	}

	fmt.Printf("Service %sed successfully\n", actionPastTenseStem(action))
	return nil
}

// actionPastTenseStem normalizes verbs so the success line reads
// naturally ("installed", "stopped", "restarted").
func actionPastTenseStem(action string) string {
	switch action {
	case "stop":
		return "stopp"
	default:
		return action
	}
}

// serviceStatus prints the current service state.
func serviceStatus() error {
	s, err := service.New(&Program{}, ServiceConfig())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	status, err := s.Status()
	if err != nil {
		return fmt.Errorf("failed to get service status: %w", err)
	}

	switch status {
	case service.StatusRunning:
		fmt.Println("Service is running")
	case service.StatusStopped:
		fmt.Println("Service is stopped")
	default:
		fmt.Println("Service status unknown")
	}
	return nil
}

// PrintServiceUsage prints help for the service management verbs.
func PrintServiceUsage() {
	fmt.Println("CoreDump Service Management")
	fmt.Println()
	fmt.Println("Usage: coredump <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  install    Install as a system service")
	fmt.Println("  uninstall  Remove the system service (alias: remove)")
	fmt.Println("  start      Start the service")
	fmt.Println("  stop       Stop the service")
	fmt.Println("  restart    Restart the service")
	fmt.Println("  status     Show the current service status")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Run without arguments to start tracking in the foreground.")
}

// HandleServiceCommand dispatches service management verbs. Returns true
// when a verb was handled and the process should exit.
func HandleServiceCommand(args []string) bool {
	if len(args) < 2 {
		return false
	}

	var err error
	switch args[1] {
	case "install":
		err = controlService("install")
	case "uninstall", "remove":
		err = controlService("uninstall")
	case "start", "stop", "restart":
		err = controlService(args[1])
	case "status":
		err = serviceStatus()
	case "help", "-h", "--help", "-help":
		PrintServiceUsage()
		return true
	default:
		return false
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(core.ExitCodeError)
	}
	return true
}
