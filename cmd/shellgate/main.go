// Package main is the entry point for shellgate, a permission-hook binary
// that reads a single tool-invocation request from stdin and decides
// whether the shell command it names is safe to run.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/normanking/shellgate/internal/audit"
	"github.com/normanking/shellgate/internal/config"
	"github.com/normanking/shellgate/internal/engine"
	"github.com/normanking/shellgate/internal/hook"
	"github.com/normanking/shellgate/internal/logging"
	"github.com/normanking/shellgate/internal/policy"
	"github.com/normanking/shellgate/internal/shell"
)

var (
	version = "0.1.0"
	cfgPath string
	verbose bool

	cfg *config.Config
	log *logging.Logger
	eng *engine.Engine
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shellgate",
		Short: "shellgate - a shell command permission hook",
		Long: `shellgate reads an agent runtime's Bash permission-hook request from
stdin and writes an allow/deny decision to stdout.

Run with no arguments inside a hook: shellgate
Test a command directly:             shellgate check "git status"
Inspect recent decisions:            shellgate audit tail`,
		PersistentPreRunE: initLogging,
		RunE:              runHook,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.shellgate/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(configCmdGroup())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shellgate v%s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initLogging loads configuration and sets up the global logger before any
// subcommand runs, mirroring the teacher's PersistentPreRunE wiring.
func initLogging(cmd *cobra.Command, args []string) error {
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFromPath(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		// A broken config file shouldn't take the whole hook down; fall
		// back to defaults and keep going.
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	level := logging.LevelInfo
	if verbose || cfg.Logging.Level == "debug" {
		level = logging.LevelDebug
	}

	logCfg := &logging.Config{
		Level:      level,
		FilePath:   cfg.Logging.File,
		Colored:    !cfg.Logging.JSON,
		ShowCaller: verbose,
		ShowTime:   true,
		Component:  "shellgate",
	}
	log = logging.New(logCfg)
	logging.SetGlobal(log)

	eng = engine.New(engine.WithCache(cfg.Cache.Size))

	return nil
}

// runHook is the default command: read one hook request from stdin,
// classify its command, and write exactly one JSON decision to stdout.
//
// This always exits 0 — a malformed request or an internal error is a
// reason to deny, never a reason to crash the hook and leave the runtime
// without an answer.
func runHook(cmd *cobra.Command, args []string) error {
	start := time.Now()

	req, err := hook.Decode(os.Stdin)
	if err != nil {
		d := policy.Deny(fmt.Sprintf("malformed hook request: %v", err))
		return writeDecision(cmd, "", d, start)
	}

	correlationID := hook.CorrelationID(req)

	if !hook.IsBashInvocation(req) {
		d := policy.Allow("tool is not Bash, outside this gate's scope")
		return writeDecision(cmd, correlationID, d, start)
	}

	d := eng.Decide(req.ToolInput.Command)
	logAndAudit(correlationID, req.ToolInput.Command, d, time.Since(start))

	return hook.Encode(cmd.OutOrStdout(), d)
}

func writeDecision(cmd *cobra.Command, correlationID string, d policy.Decision, start time.Time) error {
	logAndAudit(correlationID, "", d, time.Since(start))
	return hook.Encode(cmd.OutOrStdout(), d)
}

func logAndAudit(correlationID, command string, d policy.Decision, duration time.Duration) {
	if log != nil {
		log.WithField("correlation_id", correlationID).Decision(command, d.Allow, d.Reason, duration)
	}
	if cfg == nil || !cfg.Audit.Enabled {
		return
	}
	a, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		if log != nil {
			log.Warn("failed to open audit log: %v", err)
		}
		return
	}
	defer a.Close()

	ctx, cancel := logging.DetachContextWithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.Record(ctx, correlationID, command, d.Allow, d.Reason); err != nil && log != nil {
		log.Warn("failed to record audit entry: %v", err)
	}
}

// checkCmd exposes the engine directly for local testing, outside a hook
// invocation.
func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <command>",
		Short: "Classify a command line without a hook envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := args[0]
			d := eng.Decide(line)

			verb := "DENY"
			if d.Allow {
				verb = "ALLOW"
			}
			fmt.Printf("%s: %s\n", verb, line)
			fmt.Printf("reason: %s\n", d.Reason)

			if verbose {
				tokens, err := shell.Tokenize(line)
				if err != nil {
					fmt.Printf("parse error: %v\n", err)
					return nil
				}
				chain, err := shell.Segment(tokens)
				if err != nil {
					fmt.Printf("segment error: %v\n", err)
					return nil
				}
				fmt.Println("chain:")
				for i, sc := range chain.Commands {
					fmt.Printf("  [%d] %s\n", i, strings.Join(sc.Argv, " "))
				}
			}
			return nil
		},
	}
}

// auditCmd inspects the decision audit trail.
func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the decision audit trail",
	}

	var n int
	var follow bool
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show the most recent recorded decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			printTail := func(c *config.Config) error {
				a, err := audit.Open(c.Audit.Path)
				if err != nil {
					return fmt.Errorf("open audit log: %w", err)
				}
				defer a.Close()

				entries, err := a.Tail(context.Background(), n)
				if err != nil {
					return fmt.Errorf("read audit log: %w", err)
				}
				for _, e := range entries {
					verb := "DENY"
					if e.Allow {
						verb = "ALLOW"
					}
					fmt.Printf("%s  %-5s  %-40s  %s\n", e.CreatedAt.Format(time.RFC3339), verb, e.Command, e.Reason)
				}
				return nil
			}

			if !follow {
				return printTail(cfg)
			}

			// Follow mode watches the config file itself (not just the
			// audit log) so an operator editing audit.path or toggling
			// audit.enabled mid-session is picked up without restarting.
			path := config.GetConfigPath()
			if cfgPath != "" {
				path = cfgPath
			}
			w, err := config.Watch(path, func(c *config.Config) {
				cfg = c
			})
			if err != nil {
				return fmt.Errorf("watch config: %w", err)
			}
			defer w.Close()

			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				if !cfg.Audit.Enabled {
					continue
				}
				if err := printTail(w.Current()); err != nil {
					fmt.Fprintf(os.Stderr, "audit tail: %v\n", err)
				}
			}
			return nil
		},
	}
	tail.Flags().IntVarP(&n, "n", "n", 20, "number of rows to show")
	tail.Flags().BoolVarP(&follow, "follow", "f", false, "keep polling and hot-reload config changes")
	cmd.AddCommand(tail)

	return cmd
}

// configCmdGroup mirrors the teacher's configCmd exactly: same two
// subcommands, same purpose.
func configCmdGroup() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("shellgate Configuration:")
			fmt.Println("────────────────────────")
			fmt.Printf("Log Level:     %s\n", cfg.Logging.Level)
			fmt.Printf("Log File:      %s\n", cfg.Logging.File)
			fmt.Printf("JSON Logging:  %t\n", cfg.Logging.JSON)
			fmt.Printf("Audit Enabled: %t\n", cfg.Audit.Enabled)
			fmt.Printf("Audit Path:    %s\n", cfg.Audit.Path)
			fmt.Printf("Cache Size:    %d\n", cfg.Cache.Size)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetConfigPath())
		},
	})

	return cmd
}
