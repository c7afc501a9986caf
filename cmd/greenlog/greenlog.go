// Package greenlogcmder
package greenlogcmder

import (
	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/greenlog/cmd/greenlog/serve"
)

const greenlogLongDesc string = `Greenlog is an anonymous greentext diary service.

Journal entries are rewritten as greentext stories by an external language
model, with short memory facts extracted and reused as context for later
entries.

Run the service using:
  greenlog serve       Run the API server`

const greenlogShortDesc string = "Greenlog - Anonymous Greentext Diary"

func NewGreenlogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greenlog",
		Short: greenlogShortDesc,
		Long:  greenlogLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())

	return cmd
}
