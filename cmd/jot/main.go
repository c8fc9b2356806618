package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/willibrandon/jot/internal/buffer"
	"github.com/willibrandon/jot/internal/config"
	"github.com/willibrandon/jot/internal/editor"
	"github.com/willibrandon/jot/internal/logger"
	"github.com/willibrandon/jot/internal/terminal"
)

// Version info (set by ldflags)
var version = "dev"

type options struct {
	configPath string
	debug      bool
	logFile    string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		// Error already printed by cobra
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "jot [file]",
		Short: "A small terminal text editor",
		Long: `jot edits one plain text file in the terminal.

Keys:
  ctrl+s             Save (asks for a name when the buffer has none)
  ctrl+q             Quit
  ctrl+a / ctrl+d    Start / end of line
  ctrl+up / down     Page up / down`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runEditor(cmd.Context(), opts, path)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default ~/.config/jot/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&opts.logFile, "log-file", "", "write diagnostic logs to this file")

	rootCmd.AddCommand(newConfigCmd(opts))
	return rootCmd
}

// newConfigCmd creates the config subcommand that prints the effective configuration
func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromPath(opts.configPath)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			if cfg.File != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", cfg.File)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// runEditor loads the file, takes over the terminal and runs the editing
// session until the user quits.
func runEditor(ctx context.Context, opts *options, path string) error {
	cfg, err := config.LoadFromPath(opts.configPath)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if opts.debug {
		level = logger.LevelDebug
	}
	logFile := cfg.Log.File
	if opts.logFile != "" {
		logFile = opts.logFile
	}
	if err := logger.InitLogger(level, logFile); err != nil {
		return err
	}
	defer logger.Close()
	log := logger.With("session", uuid.NewString())

	keys, err := keyMap(cfg)
	if err != nil {
		return err
	}

	var buf *buffer.Buffer
	if path == "" {
		buf = buffer.New(buffer.WithTabStop(cfg.Editor.TabStop))
	} else {
		buf, err = buffer.Load(path, buffer.WithTabStop(cfg.Editor.TabStop))
		if err != nil {
			log.Error("load failed", "path", path, "error", err)
			return err
		}
	}

	tty, err := terminal.Open(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	width, height, err := tty.Size()
	if err != nil {
		return err
	}

	defer reportLogged()
	release, err := tty.Acquire()
	if err != nil {
		return err
	}
	defer release()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	session := editor.NewSession(buf, tty, tty, width, height,
		editor.WithPollInterval(cfg.Editor.PollInterval),
		editor.WithMessageTimeout(cfg.Editor.MessageTimeout),
		editor.WithSavePrompt(cfg.Editor.SavePrompt),
		editor.WithKeyMap(keys),
		editor.WithLogger(log),
	)

	err = session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("interrupted", "dirty", buf.Dirty())
		return nil
	}
	return err
}

// keyMap applies the keys section of the config to the default bindings.
func keyMap(cfg *config.Config) (editor.KeyMap, error) {
	km := editor.DefaultKeyMap()
	for _, action := range slices.Sorted(maps.Keys(cfg.Keys)) {
		if err := km.Rebind(action, cfg.Keys[action]...); err != nil {
			return km, fmt.Errorf("keys.%s: %w", action, err)
		}
	}
	return km, nil
}

// reportLogged points at the log file when the session logged problems.
func reportLogged() {
	warn, errs := logger.GetCounts()
	if errs == 0 || logger.LogPath == "" {
		return
	}
	fmt.Fprintf(os.Stderr, "jot: %d errors and %d warnings logged to %s\n", errs, warn, logger.LogPath)
}
