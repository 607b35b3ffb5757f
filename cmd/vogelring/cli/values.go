package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vogelring/vogelring/internal/model"
)

// NewValuesCommand lists the distinct values of a column, for picking
// filter and analysis parameters.
func NewValuesCommand() *cobra.Command {
	var datasetName string

	cmd := &cobra.Command{
		Use:   "values COLUMN",
		Short: "List the distinct non-empty values of a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			column := args[0]
			if !model.IsValidField(column) {
				return fmt.Errorf("unknown column %q", column)
			}

			a, closer, err := buildApp()
			if err != nil {
				return err
			}
			defer closer()

			table := a.Source()
			if datasetName != "" {
				_, snap, err := a.MaterializeDataset(datasetName)
				if err != nil {
					return err
				}
				table = snap.IncludedOnly()
			}

			for _, v := range table.UniqueNonEmpty(column) {
				fmt.Println(v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetName, "dataset", "", "restrict to a dataset's included rows")
	return cmd
}
