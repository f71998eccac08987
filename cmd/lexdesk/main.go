package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"lexdesk/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "lexdesk",
		Short: "Timesheets, overdue tracking and billing for a law firm",
		Long: `lexdesk records lawyers' time per client and topic, tracks days whose
timesheet was not submitted before the firm deadline, manages leave requests
and issues service descriptions and invoices from the recorded time.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(
		commands.NewServeCmd(),
		commands.NewOverdueCmd(),
		commands.NewHolidaysCmd(),
		commands.NewClientsCmd(),
		commands.NewUsersCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
