package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/athletebmi/internal/domain/insights"
)

func newSummaryCommand(g *globals) *cobra.Command {
	var (
		output    string
		countries int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print medal points per country, athletes per gender and mean age",
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

			sum, err := svc.Summary(ctx)
			if err != nil {
				return err
			}
			sum.MedalPointsByNOC = sum.TopCountries(countries)

			return render(stdout(cmd), format, sum, func(tw *tabwriter.Writer) {
				writeSummaryTable(tw, sum)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, json or yaml")
	cmd.Flags().IntVar(&countries, "countries", 10, "number of countries to list by medal points (negative for all)")
	return cmd
}

func writeSummaryTable(tw *tabwriter.Writer, sum insights.Summary) {
	fmt.Fprintln(tw, "NOC\tMEDAL POINTS")
	for _, c := range sum.MedalPointsByNOC {
		fmt.Fprintf(tw, "%s\t%d\n", c.NOC, c.Points)
	}
	fmt.Fprintln(tw)

	labels := make([]string, 0, len(sum.AthletesByGender))
	for label := range sum.AthletesByGender {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	fmt.Fprintln(tw, "GENDER\tATHLETES")
	for _, label := range labels {
		fmt.Fprintf(tw, "%s\t%d\n", label, sum.AthletesByGender[label])
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "mean age\t%.2f\n", sum.MeanAge)
	fmt.Fprintf(tw, "world record events\t%t\n", sum.HasWorldRecord)
}
