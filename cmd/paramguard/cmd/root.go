package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/paramguard/pkg/i18n"
	"github.com/dmitrymomot/paramguard/pkg/logger"
	"github.com/dmitrymomot/paramguard/pkg/schema"
)

// Config is read from the environment by pkg/config. Command line flags
// override every field.
type Config struct {
	SchemaFile  string `env:"PARAMGUARD_SCHEMA_FILE"`
	LocalesFile string `env:"PARAMGUARD_LOCALES_FILE"`
	Lang        string `env:"PARAMGUARD_LANG" envDefault:"en"`
	LogLevel    string `env:"PARAMGUARD_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"PARAMGUARD_LOG_FORMAT" envDefault:"text"`
	Service     string `env:"PARAMGUARD_SERVICE" envDefault:"paramguard"`
}

// Streams are the process standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type app struct {
	cfg     Config
	streams Streams
	log     *slog.Logger
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, cfg Config, args []string, streams Streams) int {
	a := &app{cfg: cfg, streams: streams, log: slog.New(slog.DiscardHandler)}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errInvalidInput) {
		fmt.Fprintf(streams.Err, "paramguard: %v\n", err)
	}
	return exitCode(err)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "paramguard",
		Short: "Validate parameter records against declarative schemas",
		Long: `paramguard checks JSON documents against schemas declared in YAML.

Each field carries an ordered rule set: presence, length, date format,
numeric bounds and named custom rules. Validation groups restrict a run to
a subset of fields. Failure messages can be rendered in any loaded language.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setupLogger() },
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.SchemaFile, "schema-file", a.cfg.SchemaFile, "YAML file with schema declarations")
	flags.StringVar(&a.cfg.LocalesFile, "locales-file", a.cfg.LocalesFile, "YAML file with extra or overriding message translations")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "log format: text or json")

	root.AddCommand(a.validateCommand(), a.schemasCommand(), versionCommand())
	return root
}

// setupLogger builds the run logger. Every record carries a fresh run_id.
func (a *app) setupLogger() error {
	level, err := logger.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	format := logger.Format(a.cfg.LogFormat)
	if format != logger.FormatText && format != logger.FormatJSON {
		return fmt.Errorf("%w: invalid log format %q", ErrInvalidConfig, a.cfg.LogFormat)
	}

	a.log = logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(a.streams.Err),
		logger.WithAttr(slog.String("service", a.cfg.Service), logger.RunID(uuid.New())),
	)
	return nil
}

func (a *app) registry() (*schema.Registry, error) {
	if a.cfg.SchemaFile == "" {
		return nil, ErrNoSchemaFile
	}
	schemas, err := schema.LoadYAMLFile(a.cfg.SchemaFile)
	if err != nil {
		return nil, err
	}

	reg := schema.NewRegistry(schema.WithLogger(a.log))
	if err := reg.RegisterAll(schemas); err != nil {
		return nil, err
	}
	a.log.Debug("schemas loaded",
		slog.String("file", a.cfg.SchemaFile),
		logger.Count(len(schemas)),
	)
	return reg, nil
}

func (a *app) catalog() (*i18n.Catalog, error) {
	opts := []i18n.Option{
		i18n.WithLogger(a.log),
		i18n.WithMissingTranslationsLogging(true),
	}
	if a.cfg.LocalesFile != "" {
		data, err := os.ReadFile(a.cfg.LocalesFile)
		if err != nil {
			return nil, fmt.Errorf("read locales file: %w", err)
		}
		opts = append(opts, i18n.WithYAML(data))
	}
	return i18n.NewCatalog(opts...)
}
