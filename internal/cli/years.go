package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type yearsOutput struct {
	Years   []int `json:"years" yaml:"years"`
	Default *int  `json:"default" yaml:"default"`
}

func newYearsCommand(g *globals) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "years",
		Short: "List the years with at least one athlete BMI, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := checkFormat(output)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, err := g.startService(ctx)
			if err != nil {
				return err
			}
			defer svc.Stop()

			years, err := svc.Years(ctx)
			if err != nil {
				return err
			}
			out := yearsOutput{Years: years}
			if def, ok, err := svc.DefaultYear(ctx); err != nil {
				return err
			} else if ok {
				out.Default = &def
			}

			return render(stdout(cmd), format, out, func(tw *tabwriter.Writer) {
				for _, y := range out.Years {
					fmt.Fprintln(tw, y)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}
