// swarm-tasks: task orchestration MCP server for the CodeAgentSwarm
// desktop app.
//
// The server exposes the shared task board over MCP stdio so AI coding
// agents running in the app's terminals can create, track, and complete
// tasks against the same SQLite database the kanban UI reads.
//
// Usage:
//
//	swarm-tasks serve    # Start MCP server (stdio transport)
//	swarm-tasks version  # Print version
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arturogj92/codeagentswarm-tasks/internal/config"
	"github.com/arturogj92/codeagentswarm-tasks/internal/lock"
	tasksserver "github.com/arturogj92/codeagentswarm-tasks/internal/server"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func main() {
	// stdout carries the MCP stdio transport; everything else goes to
	// stderr.
	log.SetOutput(os.Stderr)

	root := &cobra.Command{
		Use:           "swarm-tasks",
		Short:         "Task orchestration MCP server for CodeAgentSwarm",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("swarm-tasks v%s\n", tasksserver.Version)
		},
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// One server per state directory. The desktop app may spawn several
	// terminals; whoever wins the lock serves, the rest exit quietly so
	// the app does not treat the duplicate spawn as a crash.
	pidLock := lock.NewPIDFile(cfg.LockPath())
	if err := pidLock.Acquire(); err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			log.Printf("another instance is already serving (%v), exiting", err)
			return nil
		}
		return fmt.Errorf("acquiring instance lock: %w", err)
	}
	defer pidLock.Release()

	s, cleanup, err := tasksserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Release the lock on interrupt too: ServeStdio returns on stdin
	// close, but the desktop app kills us with SIGTERM on quit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cleanup()
		pidLock.Release()
		os.Exit(0)
	}()

	return server.ServeStdio(s)
}
