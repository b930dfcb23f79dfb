package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vmcollection/spidermap-go/cmd/serve"
	"github.com/vmcollection/spidermap-go/cmd/sync"
	"github.com/vmcollection/spidermap-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spidermap",
		Short: "Spidermap specimen record server",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	subcommands := []*cobra.Command{
		serve.Command(settings),
		sync.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Database.SQLite.Path, "sqlite", viper.GetString("database.sqlite.path"), "Path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&settings.Images.Directory, "imagedir", viper.GetString("images.directory"), "Directory holding specimen photographs")
	rootCmd.PersistentFlags().StringVar(&settings.DocStore.URI, "docstore", viper.GetString("docstore.uri"), "MongoDB connection URI for the record document store")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
