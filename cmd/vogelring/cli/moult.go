package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vogelring/vogelring/internal/model"
	"github.com/vogelring/vogelring/internal/moult"
)

func NewMoultCommand() *cobra.Command {
	var (
		species    string
		place      string
		yearsRaw   string
		startMonth int
		endMonth   int
		status     string
		subset     string
	)

	cmd := &cobra.Command{
		Use:   "moult DATASET",
		Short: "Run a moult migration analysis over a dataset's included rows",
		Long: "Analyzes where the rings moulting at a place were seen during the rest " +
			"of the selected years. The moulting window is either a month period " +
			"(--start-month/--end-month, wrapping over the year boundary when start > end) " +
			"or a plumage status (--status, \"all\" for any status).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			years, err := parseYears(yearsRaw)
			if err != nil {
				return err
			}

			p := moult.Parameters{
				Species: species,
				Place:   place,
				Years:   years,
			}
			switch {
			case cmd.Flags().Changed("status"):
				p.Definition = moult.StatusDefinition(status)
			case cmd.Flags().Changed("start-month") || cmd.Flags().Changed("end-month"):
				p.Definition = moult.PeriodDefinition(startMonth, endMonth)
			}

			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			result, err := a.RunMoultAnalysis(args[0], p)
			if err != nil {
				return err
			}

			printSummary(result)
			if subset != "" {
				return printDrillDown(result, subset)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "species to analyze")
	cmd.Flags().StringVar(&place, "place", "", "moulting place")
	cmd.Flags().StringVar(&yearsRaw, "years", "", "years to analyze, comma separated")
	cmd.Flags().IntVar(&startMonth, "start-month", 0, "first month of the moulting window (1-12)")
	cmd.Flags().IntVar(&endMonth, "end-month", 0, "last month of the moulting window (1-12)")
	cmd.Flags().StringVar(&status, "status", "", "plumage status defining moulting (\"all\" for any)")
	cmd.Flags().StringVar(&subset, "subset", "", "print a drill-down: moulting, rest, at-place, or elsewhere")

	return cmd
}

func printSummary(r *moult.Result) {
	fmt.Printf("moulting rings: %d\n\n", r.MoultingRings.Len())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tRINGS\tPERCENT")
	for _, row := range r.Summary {
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", row.Category, row.Count, row.Percent)
	}
	w.Flush()
}

func printDrillDown(r *moult.Result, subset string) error {
	var rows model.Table
	switch subset {
	case "moulting":
		rows = r.Moulting
	case "rest":
		rows = r.RestOfRange
	case "at-place":
		rows = r.AtMoultingPlace
	case "elsewhere":
		rows = r.Elsewhere
	default:
		return fmt.Errorf("unknown subset %q, want moulting, rest, at-place, or elsewhere", subset)
	}

	fmt.Printf("\n%s: %d sightings\n\nplaces:\n", subset, len(rows))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLACE\tRINGS\tSIGHTINGS")
	for _, pc := range moult.PlaceDistribution(rows) {
		fmt.Fprintf(w, "%s\t%d\t%d\n", pc.Place, pc.Rings, pc.Sightings)
	}
	w.Flush()

	fmt.Println("\nmonths:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tRINGS\tSIGHTINGS")
	for _, mc := range moult.MonthlyDistribution(rows) {
		fmt.Fprintf(w, "%d\t%d\t%d\n", mc.Month, mc.Rings, mc.Sightings)
	}
	return w.Flush()
}
