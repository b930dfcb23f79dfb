package sync

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmcollection/spidermap-go/internal/conf"
	"github.com/vmcollection/spidermap-go/internal/server"
)

// Command creates the command that runs a one-shot relational→document sync.
func Command(settings *conf.Settings) *cobra.Command {
	var filters map[string]string
	var name string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize specimen records into the document store",
		Long:  "Select records with the same filter policy as the records endpoint, enrich them and write one document per record to the document store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make(map[string]string, len(filters)+1)
			for key, value := range filters {
				params[key] = value
			}
			if name != "" {
				params["name"] = name
			}

			written, err := server.RunSync(settings, params)
			if err != nil {
				return err
			}
			fmt.Printf("synchronized %d records\n", written)
			return nil
		},
	}

	if err := setupFlags(cmd, &filters, &name); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the sync command.
func setupFlags(cmd *cobra.Command, filters *map[string]string, name *string) error {
	cmd.Flags().StringToStringVar(filters, "filter", nil, "Column filter as key=value, repeatable (e.g. --filter country=Venezuela)")
	cmd.Flags().StringVar(name, "name", "", "Scientific name to select records by (defaults to the collection's family)")
	return nil
}
