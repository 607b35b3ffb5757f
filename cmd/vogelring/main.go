package main

import (
	"fmt"
	"os"

	"github.com/vogelring/vogelring/cmd/vogelring/cli"
)

var (
	version = "0.1.0-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewViewsCommand())
	root.AddCommand(cli.NewDatasetsCommand())
	root.AddCommand(cli.NewMoultCommand())
	root.AddCommand(cli.NewImportCommand())
	root.AddCommand(cli.NewValuesCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
