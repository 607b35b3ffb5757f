package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vogelring/vogelring/internal/config"
)

// VersionInfo is injected by the build.
type VersionInfo struct {
	Version string
	Commit  string
}

func NewRootCommand(info VersionInfo) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:           "vogelring",
		Short:         "Bird ringing sighting browser and moult migration analyzer",
		Long:          "vogelring loads a sightings table, applies saved views and datasets with per-row inclusion control, and runs moult migration analyses over the included rows.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Missing .env files are fine.
			godotenv.Load(".env")
			return config.Init(path)
		},
	}

	cmd.PersistentFlags().StringVar(&path, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("data", "", "path to the sightings CSV")
	cmd.PersistentFlags().String("store", "", "store driver (sqlite, postgres, file)")
	cmd.PersistentFlags().String("dsn", "", "store location (file path, connection string, or directory)")

	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("data.sightings_path", cmd.PersistentFlags().Lookup("data"))
	viper.BindPFlag("store.driver", cmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("store.dsn", cmd.PersistentFlags().Lookup("dsn"))

	cmd.Version = info.Version + "." + info.Commit

	return cmd
}
