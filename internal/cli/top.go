package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/athletebmi/internal/adapters/repository"
	service "github.com/okian/athletebmi/internal/app"
)

func newTopCommand(g *globals) *cobra.Command {
	var (
		year   int
		order  string
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the lowest or highest BMI athletes of a year",
		Example: `  bmictl top --year 2016
  bmictl top --year 1992 --order descending --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := checkFormat(output)
			if err != nil {
				return err
			}
			ord, err := repository.ParseOrder(order)
			if err != nil {
				return err
			}

			var opts []service.Option
			if cmd.Flags().Changed("limit") {
				opts = append(opts, service.WithSelectionLimit(limit))
			}

			ctx := cmd.Context()
			svc, err := g.startService(ctx, opts...)
			if err != nil {
				return err
			}
			defer svc.Stop()

			if !cmd.Flags().Changed("year") {
				def, ok, err := svc.DefaultYear(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: dataset is empty", repository.ErrYearNotFound)
				}
				year = def
			}

			sel, err := svc.Select(ctx, year, ord)
			if err != nil {
				return err
			}

			return render(stdout(cmd), format, sel, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "#\tNAME\tBMI")
				for i := range sel.Names {
					fmt.Fprintf(tw, "%d\t%s\t%.2f\n", i+1, sel.Names[i], sel.BMI[i])
				}
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&year, "year", 0, "year to rank (default: most recent)")
	f.StringVar(&order, "order", string(repository.Ascending), "ascending (lowest BMI) or descending (highest BMI)")
	f.IntVar(&limit, "limit", repository.DefaultSelectionLimit, "number of athletes to print")
	f.StringVarP(&output, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}
