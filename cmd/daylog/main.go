package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/daylog/internal/api"
	"github.com/terraincognita07/daylog/internal/cli"
	"github.com/terraincognita07/daylog/internal/config"
	"github.com/terraincognita07/daylog/internal/db"
	"github.com/terraincognita07/daylog/internal/i18n"
	"github.com/terraincognita07/daylog/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	configPath string
	verbose    bool
	logger     *zap.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	options := &rootOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "daylog",
		Short:         "Daily activity log with fixed time slots and spreadsheet export",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(options.verbose)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			options.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = options.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&options.configPath, "config", config.DefaultConfigPath, "path to the TOML config file")
	root.PersistentFlags().BoolVar(&options.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(newServeCommand(options))
	root.AddCommand(newSeedCommand(options))
	root.AddCommand(newResetPasswordCommand(options))
	root.AddCommand(newExportCommand(options))
	return root
}

func newLogger(verbose bool) (*zap.Logger, error) {
	loggerConfig := zap.NewProductionConfig()
	if verbose {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return loggerConfig.Build()
}

// runtime is the opened config, store and translations shared by every
// command.
type runtime struct {
	config *config.Config
	store  *db.Store
	i18n   *i18n.Manager
}

func openRuntime(options *rootOptions) (*runtime, error) {
	cfg, err := config.LoadFrom(options.configPath)
	if err != nil {
		return nil, err
	}

	i18nManager, err := i18n.NewManager(cfg.I18n.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	store, err := db.OpenStore(cfg.Storage.Backend, cfg.Storage.DBPath, cfg.Storage.WorkbookPath)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	options.logger.Debug("runtime opened",
		zap.String("backend", store.Backend),
		zap.String("timezone", cfg.Server.Timezone),
		zap.String("slot_policy", cfg.Slots.Policy),
	)
	return &runtime{config: cfg, store: store, i18n: i18nManager}, nil
}

func (rt *runtime) Close() error {
	return rt.store.Close()
}

func (rt *runtime) entryService(logger *zap.Logger) (*services.EntryService, error) {
	policy, err := services.ParseSlotPolicy(rt.config.Slots.Policy)
	if err != nil {
		return nil, err
	}
	return services.NewEntryService(rt.store.Entries, policy, logger.Named("entries")), nil
}

func newSeedCommand(options *rootOptions) *cobra.Command {
	var rosterPath string

	command := &cobra.Command{
		Use:   "seed",
		Short: "Create the roster accounts on an empty users table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(options)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			if rosterPath == "" {
				rosterPath = rt.config.Seed.RosterPath
			}
			seeder := services.NewSeedService(rt.store.Users, options.logger.Named("seed"))
			return cli.RunSeedCommand(seeder, rosterPath, cmd.OutOrStdout())
		},
	}
	command.Flags().StringVar(&rosterPath, "roster", "", "YAML roster file, built-in roster when empty")
	return command
}

func newResetPasswordCommand(options *rootOptions) *cobra.Command {
	var prompt bool

	command := &cobra.Command{
		Use:   "reset-password <username>",
		Short: "Reset an account password and require a change on next login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			newPassword := ""
			if prompt {
				chosen, err := cli.PromptNewPassword(os.Stdin, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				newPassword = chosen
			}

			rt, err := openRuntime(options)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			auth := services.NewAuthService(rt.store.Users, db.IsNotFound, options.logger.Named("auth"))
			return cli.RunResetPasswordCommand(auth, args[0], newPassword, cmd.OutOrStdout())
		},
	}
	command.Flags().BoolVar(&prompt, "prompt", false, "ask for the new password instead of generating one")
	return command
}

type exportFlags struct {
	username string
	from     string
	to       string
	out      string
	format   string
	language string
}

func newExportCommand(options *rootOptions) *cobra.Command {
	flags := exportFlags{}

	command := &cobra.Command{
		Use:   "export",
		Short: "Write the grouped report of one user to an xlsx or csv file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(options)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			return runExport(rt, options.logger, flags, time.Now(), cmd.OutOrStdout())
		},
	}
	command.Flags().StringVar(&flags.username, "user", "", "account whose entries are exported")
	command.Flags().StringVar(&flags.from, "from", "", "first day, YYYY-MM-DD (default 1 January of this year)")
	command.Flags().StringVar(&flags.to, "to", "", "last day, YYYY-MM-DD (default today)")
	command.Flags().StringVar(&flags.out, "out", "", "output file, named after the range when empty")
	command.Flags().StringVar(&flags.format, "format", "", "xlsx or csv, taken from --out when empty")
	command.Flags().StringVar(&flags.language, "lang", "", "language of headers and dates")
	_ = command.MarkFlagRequired("user")
	return command
}

func runExport(rt *runtime, logger *zap.Logger, flags exportFlags, now time.Time, out io.Writer) error {
	entries, err := rt.entryService(logger)
	if err != nil {
		return err
	}

	language := flags.language
	if language == "" {
		language = rt.config.I18n.DefaultLanguage
	}

	return cli.RunExportCommand(services.NewExportService(entries), cli.ExportOptions{
		Username: flags.username,
		From:     flags.from,
		To:       flags.to,
		Out:      flags.out,
		Format:   flags.format,
		Labels:   api.ExportLabelsFor(rt.i18n, language),
		Now:      now,
		Location: rt.config.Location(),
	}, out)
}
