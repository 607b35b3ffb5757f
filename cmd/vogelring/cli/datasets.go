package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vogelring/vogelring/internal/dataset"
)

func NewDatasetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Manage saved datasets",
	}
	cmd.AddCommand(newDatasetsListCommand())
	cmd.AddCommand(newDatasetsSaveCommand())
	cmd.AddCommand(newDatasetsShowCommand())
	cmd.AddCommand(newDatasetsDeleteCommand())
	cmd.AddCommand(newDatasetsDuplicateCommand())
	cmd.AddCommand(newDatasetsToggleCommand())
	cmd.AddCommand(newDatasetsSelectCommand())
	cmd.AddCommand(newDatasetsPruneCommand())
	cmd.AddCommand(newDatasetsExportCommand())
	return cmd
}

func newDatasetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			datasets, err := a.ListDatasets()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFILTERS\tEXCLUDED\tUPDATED\tDESCRIPTION")
			for _, d := range datasets {
				updated := ""
				if !d.UpdatedAt.IsZero() {
					updated = d.UpdatedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
					d.Name, len(d.Filters), d.ExcludedIDs.Len(), updated, d.Description)
			}
			return w.Flush()
		},
	}
}

func newDatasetsSaveCommand() *cobra.Command {
	var (
		description string
		columns     []string
		idField     string
		ff          filterFlags
	)

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Create or overwrite a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := ff.predicates()
			if err != nil {
				return err
			}

			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			d := &dataset.Dataset{
				Name:        args[0],
				Description: description,
				Columns:     columns,
				Filters:     filters,
				IDField:     idField,
			}
			// Carry forward inclusion state and timestamps on overwrite.
			if existing, err := a.GetDataset(args[0]); err == nil {
				d.ExcludedIDs = existing.ExcludedIDs
				d.CreatedAt = existing.CreatedAt
				d.UpdatedAt = existing.UpdatedAt
			}
			if err := a.SaveDataset(d); err != nil {
				return err
			}
			fmt.Printf("saved dataset %q\n", d.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "dataset description")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to project, in display order")
	cmd.Flags().StringVar(&idField, "id-field", "", "row identity column (default \"id\")")
	addFilterFlags(cmd, &ff)
	return cmd
}

func newDatasetsShowCommand() *cobra.Command {
	var (
		limit        int
		includedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Materialize a dataset and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			_, snap, err := a.MaterializeDataset(args[0])
			if err != nil {
				return err
			}
			printSnapshot(snap, limit, includedOnly)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to print (0 for all)")
	cmd.Flags().BoolVar(&includedOnly, "included-only", false, "print only included rows")
	return cmd
}

func newDatasetsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			if err := a.DeleteDataset(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted dataset %q\n", args[0])
			return nil
		},
	}
}

func newDatasetsDuplicateCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "duplicate NAME NEWNAME",
		Short: "Copy a dataset under a new name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}
			dup, err := a.DuplicateDataset(args[0], args[1], desc)
			if err != nil {
				return err
			}
			fmt.Printf("duplicated %q as %q\n", args[0], dup.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "description for the copy")
	return cmd
}

func newDatasetsToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle NAME ID",
		Short: "Flip the inclusion of one row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			if err := a.ToggleInclusion(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("toggled row %q in dataset %q\n", args[1], args[0])
			return nil
		},
	}
}

func newDatasetsSelectCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "select NAME (all|none)",
		Short:     "Include or exclude every current row",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"all", "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			switch args[1] {
			case "all":
				err = a.SelectAllRows(args[0])
			case "none":
				err = a.SelectNoRows(args[0])
			default:
				return fmt.Errorf("unknown selection %q, want all or none", args[1])
			}
			if err != nil {
				return err
			}
			fmt.Printf("selected %s rows in dataset %q\n", args[1], args[0])
			return nil
		},
	}
}

func newDatasetsPruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune NAME",
		Short: "Drop exclusions that no longer match any current row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			removed, err := a.PruneDataset(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("pruned %d stale exclusion(s) from dataset %q\n", removed, args[0])
			return nil
		},
	}
}

func newDatasetsExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export NAME FILE",
		Short: "Write the materialized snapshot to a CSV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			_, snap, err := a.MaterializeDataset(args[0])
			if err != nil {
				return err
			}

			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			if err := dataset.WriteCSV(f, snap); err != nil {
				return err
			}
			fmt.Printf("exported %d rows to %s\n", len(snap.Rows), args[1])
			return nil
		},
	}
}

func printSnapshot(snap dataset.Snapshot, limit int, includedOnly bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	header := "included"
	for _, c := range snap.Columns {
		header += "\t" + c
	}
	fmt.Fprintln(w, header)

	printed, included := 0, 0
	for _, row := range snap.Rows {
		if row.Included {
			included++
		}
		if includedOnly && !row.Included {
			continue
		}
		if limit > 0 && printed >= limit {
			continue
		}
		line := fmt.Sprintf("%t", row.Included)
		for _, c := range snap.Columns {
			text, _ := row.Text(c)
			line += "\t" + text
		}
		fmt.Fprintln(w, line)
		printed++
	}
	w.Flush()
	fmt.Printf("%d rows, %d included, %d excluded\n",
		len(snap.Rows), included, len(snap.Rows)-included)
}
