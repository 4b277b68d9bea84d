package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"shelfsync/internal/app"
	"shelfsync/internal/domain"
	"shelfsync/internal/infra/config"
	"shelfsync/internal/infra/telemetry"
)

const defaultConfigPath = "shelfsync.yaml"

type cliOptions struct {
	configPath       string
	logLevel         string
	logFormat        string
	account          string
	toolsFolder      string
	syncRoot         string
	infoPaths        []string
	duplicateFolders string
	output           string
	format           string
	jsonOutput       bool
	logger           *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		configPath: defaultConfigPath,
		logLevel:   "info",
		logFormat:  "console",
		logger:     zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "shelfsync",
		Short:         "Sync shared Dropbox tool shelves into host application menus",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := telemetry.NewLogger(telemetry.LoggerOptions{
				Level:  opts.logLevel,
				Format: opts.logFormat,
			})
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", opts.configPath, "path to the configuration file (optional when left at the default)")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", opts.logFormat, "log format (console or json)")
	flags.StringVar(&opts.account, "account", "", "sync client account profile (personal or business)")
	flags.StringVar(&opts.toolsFolder, "tools-folder", "", "name of the shared tools folder")
	flags.StringVar(&opts.syncRoot, "sync-root", "", "use this sync root instead of reading the sync client metadata")
	flags.StringArrayVar(&opts.infoPaths, "info-path", nil, "sync client metadata file to try (repeatable)")
	flags.StringVar(&opts.duplicateFolders, "duplicate-folders", "", "what to do when the tools folder name matches more than once (error or first)")
	flags.StringVarP(&opts.output, "output", "o", "", "manifest output file (- for stdout)")
	flags.StringVar(&opts.format, "format", "", "manifest format (json, yaml or toml)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "output JSON")

	root.AddCommand(
		newSyncCmd(&opts),
		newWatchCmd(&opts),
		newLocateCmd(&opts),
		newCatalogCmd(&opts),
		newValidateCmd(&opts),
	)

	return root
}

// loadConfig reads the configuration file and applies the flags the user
// set explicitly on top of it.
func loadConfig(ctx context.Context, cmd *cobra.Command, opts *cliOptions) (domain.Config, error) {
	optional := !cmd.Flags().Changed("config")
	cfg, err := config.NewLoader(opts.logger).Load(ctx, opts.configPath, optional)
	if err != nil {
		return domain.Config{}, err
	}
	applyFlagOverrides(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func applyFlagOverrides(flags *pflag.FlagSet, cfg *domain.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "account":
			cfg.AccountType, _ = flags.GetString("account")
		case "tools-folder":
			value, _ := flags.GetString("tools-folder")
			cfg.SetToolsFolder(strings.TrimSpace(value))
		case "sync-root":
			cfg.SyncRoot, _ = flags.GetString("sync-root")
		case "info-path":
			cfg.InfoPaths, _ = flags.GetStringArray("info-path")
		case "duplicate-folders":
			value, _ := flags.GetString("duplicate-folders")
			cfg.DuplicateFolders = domain.DuplicatePolicy(value)
		case "output":
			cfg.Manifest.Output, _ = flags.GetString("output")
		case "format":
			cfg.Manifest.Format, _ = flags.GetString("format")
		case "metrics-listen":
			cfg.Watch.MetricsListen, _ = flags.GetString("metrics-listen")
		case "debounce":
			var debounce time.Duration
			debounce, _ = flags.GetDuration("debounce")
			cfg.Watch.Debounce = debounce
		}
	})
}

func newApplication(cmd *cobra.Command, opts *cliOptions) (*app.Application, domain.Config, error) {
	cfg, err := loadConfig(cmd.Context(), cmd, opts)
	if err != nil {
		return nil, domain.Config{}, err
	}
	application, err := app.InitializeApplication(cfg, app.LoggingConfig{Logger: opts.logger})
	if err != nil {
		return nil, domain.Config{}, err
	}
	return application, cfg, nil
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
