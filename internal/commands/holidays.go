package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewHolidaysCmd создает группу команд holidays.
func NewHolidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Manage non-working days",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <path>",
		Short: "Import YAML calendars or a JSON production calendar (file or directory)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(loadConfig())
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.holidays.LoadCalendars(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d non-working day(s) from %s\n", color.GreenString("Imported"), n, args[0])
			return nil
		},
	})
	return cmd
}
