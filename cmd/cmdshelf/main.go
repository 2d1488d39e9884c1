// Package main provides the entry point for cmdshelf.
//
// cmdshelf maintains a shared library of command-line shortcuts. A raw
// command is generalized by a language model into a categorized shortcut
// entry, validated, approved interactively, appended to a JSON store, and
// synced to a remote blob shared between machines.
//
// Usage:
//
//	cmdshelf watch              Watch the pending-input file continuously
//	cmdshelf process            Process the pending-input file once
//	cmdshelf manual             Enter a command interactively
//	cmdshelf validate <path>    Check a store file for JSON validity
//	cmdshelf pull               Overwrite the local store from remote
//	cmdshelf push               Replace the remote store with local
//	cmdshelf serve-mcp          Serve the store over MCP (stdio)
//	cmdshelf version            Show version
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/cmdshelf/cmdshelf/internal/api"
	"github.com/cmdshelf/cmdshelf/internal/config"
	"github.com/cmdshelf/cmdshelf/internal/logger"
	"github.com/cmdshelf/cmdshelf/internal/mcp"
	"github.com/cmdshelf/cmdshelf/internal/render"
	"github.com/cmdshelf/cmdshelf/internal/term"
	"github.com/cmdshelf/cmdshelf/pkg/formatter"
	"github.com/cmdshelf/cmdshelf/pkg/llm"
	"github.com/cmdshelf/cmdshelf/pkg/remote"
	"github.com/cmdshelf/cmdshelf/pkg/store"
	"github.com/cmdshelf/cmdshelf/pkg/watch"
	"github.com/cmdshelf/cmdshelf/pkg/workflow"
)

// version is set via -ldflags at build time
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "watch":
		err = cmdWatch()
	case "process":
		err = cmdProcess()
	case "manual":
		err = cmdManual()
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "pull":
		err = cmdPull()
	case "push":
		err = cmdPush()
	case "serve-mcp", "mcp":
		err = cmdMCP()
	case "version", "-v", "--version":
		fmt.Printf("cmdshelf version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	logger.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cmdshelf - shared command-shortcut library agent

Usage:
  cmdshelf [command]

Commands:
  watch         Watch the pending-input file and process new commands
  process       Process the pending-input file once
  manual        Enter a command interactively
  validate      Check a store file for JSON validity: cmdshelf validate <path>
  pull          Overwrite the local store with the remote record
  push          Replace the remote record with the local store
  serve-mcp     Serve the store over MCP (stdio mode)
  version       Show version information
  help          Show this help

Environment:
  OPENAI_API_KEY        API key for the formatting model
  CMDSHELF_BIN_URL      URL of the remote store document
  CMDSHELF_MASTER_KEY   Secret for the remote store

Configuration:
  Config file: ` + config.DefaultConfigPath())
}

// app bundles everything one invocation needs.
type app struct {
	cfg     *config.Config
	log     arbor.ILogger
	console *render.Console
	wf      *workflow.Workflow
	remote  *remote.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	log := logger.SetupLogger(cfg)
	console := render.NewConsole()

	var pusher workflow.Pusher
	var remoteClient *remote.Client
	if cfg.Remote.BinURL != "" {
		remoteClient = remote.NewClient(remote.Config{
			BinURL:    cfg.Remote.BinURL,
			MasterKey: cfg.Remote.MasterKey,
		}, log)
		pusher = remoteClient
	}

	client := llm.NewOpenAIClient(llm.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
	})
	fmtr := formatter.New(client, cfg.LLM.Model, cfg.LLM.Temperature, log, console)

	wf := workflow.New(workflow.Options{
		StorePath:   cfg.Store.Path,
		PendingPath: cfg.Store.PendingPath,
		Formatter:   fmtr,
		Pusher:      pusher,
		Confirm:     term.New(),
		UI:          console,
		Log:         log,
	})

	return &app{
		cfg:     cfg,
		log:     log,
		console: console,
		wf:      wf,
		remote:  remoteClient,
	}, nil
}

func configPath() string {
	if path := os.Getenv("CMDSHELF_CONFIG"); path != "" {
		return path
	}
	return config.DefaultConfigPath()
}

// startupPull brings the local store up to date before the first write.
// Failures are logged and reported but never block the invocation.
func (a *app) startupPull(ctx context.Context) {
	if a.remote == nil {
		a.log.Info().Msg("remote store not configured, skipping startup pull")
		return
	}

	a.console.Info("Syncing remote store...")
	if err := a.remote.Pull(ctx, a.cfg.Store.Path); err != nil {
		a.log.Warn().Err(err).Msg("startup pull failed, continuing with local store")
		a.console.Warn("Could not pull the remote store; continuing with local state.")
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func cmdWatch() error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a.console.Success("Starting agent in watch mode...")
	a.startupPull(ctx)

	waiter, err := newWaiter(a.cfg)
	if err != nil {
		return err
	}
	defer waiter.Close()

	if a.cfg.Monitor.Enabled {
		srv := api.NewServer(a.cfg, version)
		go func() {
			a.log.Info().Str("address", a.cfg.MonitorAddress()).Msg("monitor API listening")
			if err := http.ListenAndServe(a.cfg.MonitorAddress(), srv.Handler()); err != nil {
				a.log.Warn().Err(err).Msg("monitor API stopped")
			}
		}()
	}

	a.console.Info(fmt.Sprintf("Watching for new commands in %s...", a.cfg.Store.PendingPath))
	a.log.Info().Str("path", a.cfg.Store.PendingPath).Str("mode", a.cfg.Watch.Mode).Msg("watching for new commands")

	for {
		if err := waiter.Wait(ctx); err != nil {
			if errors.Is(err, watch.ErrFileRemoved) {
				a.log.Warn().Str("path", a.cfg.Store.PendingPath).Msg("watched file was deleted, stopping watch")
				a.console.Warn("The watched file was deleted. Stopping watch.")
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		// One cycle per change event; a bad cycle never stops the loop.
		if err := a.wf.ConsumePending(ctx); err != nil {
			a.log.Warn().Err(err).Msg("ingestion cycle aborted")
		}
	}
}

func newWaiter(cfg *config.Config) (watch.Waiter, error) {
	switch cfg.Watch.Mode {
	case "notify":
		return watch.NewNotifyWatcher(cfg.Store.PendingPath)
	default:
		interval := time.Duration(cfg.Watch.PollIntervalSeconds) * time.Second
		return watch.NewPollWatcher(cfg.Store.PendingPath, interval)
	}
}

func cmdProcess() error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a.console.Success("Starting a one-time processing of the pending command...")
	a.startupPull(ctx)

	if err := a.wf.ConsumePending(ctx); err != nil {
		a.log.Warn().Err(err).Msg("ingestion cycle aborted")
	}
	a.console.Success("Processing finished.")
	return nil
}

func cmdManual() error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a.console.Success("Starting manual command processing...")
	a.startupPull(ctx)

	raw, err := term.New().Prompt("Please enter the command to process")
	if err != nil {
		return err
	}

	if err := a.wf.Run(ctx, raw); err != nil {
		a.log.Warn().Err(err).Msg("ingestion cycle aborted")
	}
	a.console.Success("Manual processing finished.")
	return nil
}

func cmdValidate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cmdshelf validate <path>")
	}

	valid, msg := store.Validate(args[0])
	fmt.Println(valid)
	if !valid {
		fmt.Println(msg)
	}
	return nil
}

func cmdPull() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if a.remote == nil {
		return fmt.Errorf("remote store not configured (set CMDSHELF_BIN_URL)")
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := a.remote.Pull(ctx, a.cfg.Store.Path); err != nil {
		return err
	}
	a.console.Success("Successfully synced remote store to " + a.cfg.Store.Path)
	return nil
}

func cmdPush() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if a.remote == nil {
		return fmt.Errorf("remote store not configured (set CMDSHELF_BIN_URL)")
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := a.remote.Push(ctx, a.cfg.Store.Path); err != nil {
		return err
	}
	a.console.Success("Successfully synced local store to remote.")
	return nil
}

func cmdMCP() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// MCP runs over stdio; keep the terminal quiet and log to file only.
	cfg.Logging.Output = []string{"file"}
	logger.SetupLogger(cfg)

	return mcp.NewServer(cfg.Store.Path, version).ServeStdio()
}
