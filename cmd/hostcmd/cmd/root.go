package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/hostcmd/action"
	"github.com/msto63/hostcmd/core/config"
	hclog "github.com/msto63/hostcmd/core/log"
	"github.com/msto63/hostcmd/journal"
	"github.com/msto63/hostcmd/transport/ws"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hostcmd",
	Short: "hostcmd - command batching for host automation endpoints",
	Long: `hostcmd batches, groups, and dispatches automation commands
against a host application's websocket automation endpoint.

Commands:
  play     - execute a single command
  batch    - execute a batch of commands from a JSON file
  get      - resolve a reference and print its descriptor
  props    - fetch properties of a reference
  journal  - inspect the local dispatch journal`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./hostcmd.toml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}

// loadConfig resolves the effective configuration from flag, default
// file, and environment
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	if _, err := os.Stat("hostcmd.toml"); err == nil {
		return config.Load("hostcmd.toml")
	}
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger from the configuration, bumped to
// trace by --verbose
func newLogger(cfg *config.Config) *hclog.Logger {
	level, err := hclog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = hclog.LevelInfo
	}
	if verbose {
		level = hclog.LevelTrace
	}

	format, err := hclog.ParseFormat(cfg.Log.Format)
	if err != nil {
		format = hclog.FormatText
	}

	return hclog.New().
		WithLevel(level).
		WithFormat(format).
		WithOutput(os.Stderr).
		WithName("hostcmd")
}

// session bundles everything a subcommand needs to talk to the host
type session struct {
	engine  *action.Engine
	client  *ws.Client
	journal *journal.Journal
}

// newSession connects to the host and wires the engine per the
// configuration
func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	client, err := ws.Dial(ws.ClientOptions{
		Address:      cfg.Host.Address,
		DialTimeout:  cfg.Host.DialTimeout.Std(),
		WriteTimeout: cfg.Host.WriteTimeout.Std(),
		PingInterval: cfg.Host.PingInterval.Std(),
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	s := &session{client: client}

	var recorder action.DispatchRecorder
	if cfg.Journal.Enabled {
		j, err := journal.Open(journal.Options{
			Path:   cfg.Journal.Path,
			Logger: logger,
		})
		if err != nil {
			client.Close()
			return nil, err
		}
		s.journal = j
		recorder = j
	}

	engine, err := action.New(action.EngineOptions{
		Executor:           client,
		Logger:             logger,
		Recorder:           recorder,
		DefaultInteraction: action.Interaction(cfg.Engine.Interaction),
	})
	if err != nil {
		s.close()
		return nil, err
	}
	s.engine = engine

	return s, nil
}

func (s *session) close() {
	if s.journal != nil {
		s.journal.Close()
	}
	if s.client != nil {
		s.client.Close()
	}
}
