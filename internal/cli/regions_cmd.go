package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/prescreen/internal/cli/formatter"
	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/spf13/cobra"
)

// regionsJSON is the machine-readable catalog listing.
type regionsJSON struct {
	Version string          `json:"version"`
	Regions []domain.Region `json:"regions"`
}

func newRegionsCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the body regions available for pain location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch format {
			case "text":
				fmt.Fprint(out, formatter.FormatRegions(app.Catalog.Version(), app.Catalog.All()))
				return nil
			case "json":
				data, err := json.MarshalIndent(regionsJSON{
					Version: app.Catalog.Version(),
					Regions: app.Catalog.All(),
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			return fmt.Errorf("invalid --format %q, must be one of: text, json", format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")

	return cmd
}
