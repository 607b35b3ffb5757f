package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vogelring/vogelring/internal/view"
)

func NewViewsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Manage saved views",
	}
	cmd.AddCommand(newViewsListCommand())
	cmd.AddCommand(newViewsSaveCommand())
	cmd.AddCommand(newViewsShowCommand())
	cmd.AddCommand(newViewsDeleteCommand())
	return cmd
}

func newViewsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved views",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			views, err := a.ListViews()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOLUMNS\tFILTERS\tDESCRIPTION")
			for _, v := range views {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", v.Name, len(v.Columns), len(v.Filters), v.Description)
			}
			return w.Flush()
		},
	}
}

func newViewsSaveCommand() *cobra.Command {
	var (
		description string
		columns     []string
		ff          filterFlags
	)

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Create or overwrite a view",
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

			v := &view.View{
				Name:        args[0],
				Description: description,
				Columns:     columns,
				Filters:     filters,
			}
			if err := a.SaveView(v); err != nil {
				return err
			}
			fmt.Printf("saved view %q\n", v.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "view description")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to project, in display order")
	addFilterFlags(cmd, &ff)
	return cmd
}

func newViewsShowCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Resolve a view against the sightings table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			res, err := a.ResolveView(args[0])
			if err != nil {
				return err
			}
			printResolution(res, limit)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to print (0 for all)")
	return cmd
}

func newViewsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			if err := a.DeleteView(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted view %q\n", args[0])
			return nil
		},
	}
}

func printResolution(res view.Resolution, limit int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	header := ""
	for i, c := range res.Columns {
		if i > 0 {
			header += "\t"
		}
		header += c
	}
	fmt.Fprintln(w, header)

	printed := 0
	for _, row := range res.Rows {
		if limit > 0 && printed >= limit {
			break
		}
		line := ""
		for i, c := range res.Columns {
			if i > 0 {
				line += "\t"
			}
			text, _ := row.Text(c)
			line += text
		}
		fmt.Fprintln(w, line)
		printed++
	}
	w.Flush()
	fmt.Printf("%d rows\n", len(res.Rows))
}
