package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/athletebmi/internal/athletegen"
	"github.com/okian/athletebmi/pkg/logger"
)

func newGenerateCommand() *cobra.Command {
	var (
		out string
		cfg = athletegen.Config{
			Rows:          athletegen.DefaultRows,
			MissingRate:   athletegen.DefaultMissingRate,
			DuplicateRate: athletegen.DefaultDuplicateRate,
		}
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic athlete_events CSV",
		Long:  `generate writes a reproducible dataset in the athlete_events layout, including rows with NA height or weight and repeated athlete-year rows, for demos and load tests.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			stats, err := writeGenerated(cmd, out, cfg)
			if err != nil {
				return err
			}
			logger.Get().Info(ctx, "dataset written",
				logger.String("out", out),
				logger.Int("rows", stats.Rows),
				logger.Int("missing", stats.Missing),
				logger.Int("duplicates", stats.Duplicates),
			)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&out, "out", "-", "output file, - for stdout")
	f.IntVar(&cfg.Rows, "rows", athletegen.DefaultRows, "number of rows")
	f.Int64Var(&cfg.Seed, "seed", 1, "random seed")
	f.IntSliceVar(&cfg.Years, "years", nil, "candidate years (default: Summer Games 1896-2016)")
	f.Float64Var(&cfg.MissingRate, "missing-rate", athletegen.DefaultMissingRate, "share of rows with NA height or weight")
	f.Float64Var(&cfg.DuplicateRate, "duplicate-rate", athletegen.DefaultDuplicateRate, "share of rows repeating an athlete and year")
	return cmd
}

// writeGenerated writes to stdout for "-" or an empty path, otherwise to a new
// file that is closed before returning.
func writeGenerated(cmd *cobra.Command, out string, cfg athletegen.Config) (athletegen.Stats, error) {
	ctx := cmd.Context()
	if out == "" || out == "-" {
		return athletegen.Write(ctx, stdout(cmd), cfg)
	}

	f, err := os.Create(out) //nolint:gosec // operator supplied path
	if err != nil {
		return athletegen.Stats{}, fmt.Errorf("create %s: %w", out, err)
	}
	stats, err := athletegen.Write(ctx, f, cfg)
	if cerr := f.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close %s: %w", out, cerr))
	}
	return stats, err
}
