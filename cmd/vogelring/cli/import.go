package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vogelring/vogelring/internal/dataset"
	"github.com/vogelring/vogelring/internal/ringset"
)

// NewImportCommand reads an exported snapshot CSV and saves it as a
// dataset, reconstructing the exclusion set from the inclusion column.
func NewImportCommand() *cobra.Command {
	var (
		description string
		idField     string
		ff          filterFlags
	)

	cmd := &cobra.Command{
		Use:   "import NAME FILE",
		Short: "Import a snapshot CSV as a dataset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := ff.predicates()
			if err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := dataset.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}

			d := &dataset.Dataset{
				Name:        args[0],
				Description: description,
				Filters:     filters,
				IDField:     idField,
				ExcludedIDs: ringset.New(),
			}

			field := idField
			if field == "" {
				field = dataset.DefaultIDField
			}
			excluded := 0
			for _, row := range rows {
				if row.Included {
					continue
				}
				if id, _ := row.Text(field); id != "" {
					d.ExcludedIDs.Add(id)
					excluded++
				}
			}

			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			if err := a.SaveDataset(d); err != nil {
				return err
			}
			fmt.Printf("imported %d rows (%d excluded) as dataset %q\n",
				len(rows), excluded, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "dataset description")
	cmd.Flags().StringVar(&idField, "id-field", "", "row identity column (default \"id\")")
	addFilterFlags(cmd, &ff)
	return cmd
}
