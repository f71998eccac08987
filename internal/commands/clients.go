package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lexdesk/internal/export"
)

// NewClientsCmd создает группу команд clients.
func NewClientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage clients",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.xlsx|file.xls>",
		Short: "Create or update clients from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := export.ReadClientRows(f, args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			a, err := newApp(loadConfig())
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.clients.ImportClients(rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s created %d, updated %d\n",
				color.GreenString("Clients imported:"), result.Created, result.Updated)
			return nil
		},
	})
	return cmd
}
