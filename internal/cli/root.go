// Package cli implements the bmictl command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/athletebmi/internal/app"
	"github.com/okian/athletebmi/internal/config"
	"github.com/okian/athletebmi/pkg/logger"
)

// globals holds the persistent flags and the resolved configuration.
type globals struct {
	dataPath  string
	delimiter string
	logLevel  string

	cfg *config.Config
}

// NewRootCommand builds the bmictl command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "bmictl",
		Short:         "Query the Olympic athlete BMI dataset from the terminal",
		Long:          `bmictl loads an athlete_events CSV the same way the dashboard does and prints years, BMI rankings and dataset statistics. It can also generate synthetic datasets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.resolve(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&g.dataPath, "data", "", "dataset CSV path (default from config)")
	f.StringVar(&g.delimiter, "delimiter", "", "dataset field delimiter (default from config)")
	f.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")

	root.AddCommand(
		newYearsCommand(g),
		newTopCommand(g),
		newSummaryCommand(g),
		newGenerateCommand(),
	)
	return root
}

// Execute runs bmictl with os.Args and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolve layers the flags over the file and environment configuration and
// sets up logging on stderr so stdout stays machine readable.
func (g *globals) resolve(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("data") {
		cfg.DataPath = g.dataPath
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = g.delimiter
	}
	if f.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	g.cfg = cfg
	return nil
}

// startService builds the dataset the same way the server does.
func (g *globals) startService(ctx context.Context, opts ...service.Option) (*service.Service, error) {
	base := []service.Option{
		service.WithDataPath(g.cfg.DataPath),
		service.WithDelimiter(g.cfg.DelimiterRune()),
		service.WithSelectionLimit(g.cfg.SelectionLimit),
		service.WithLogger(logger.Named("bmictl")),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func stdout(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
