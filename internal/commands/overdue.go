package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lexdesk/internal/service"
	"lexdesk/pkg/civil"
)

// NewOverdueCmd создает команду overdue.
func NewOverdueCmd() *cobra.Command {
	var (
		email string
		at    string
	)

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "Print overdue timesheet days of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --now, expected RFC3339: %w", err)
				}
				now = parsed
			}
			return runOverdue(cmd.OutOrStdout(), email, now)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&at, "now", "", "evaluate at this instant (RFC3339)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runOverdue(out io.Writer, email string, now time.Time) error {
	a, err := newApp(loadConfig())
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.users.GetByEmail(email)
	if err != nil {
		return err
	}
	dates, err := a.overdue.ForUser(user, now)
	if err != nil {
		return err
	}
	printOverdue(out, user.Name, dates)
	return nil
}

func printOverdue(out io.Writer, name string, dates []civil.Date) {
	if len(dates) == 0 {
		fmt.Fprintf(out, "%s: %s\n", name, color.GreenString("no overdue days"))
		return
	}
	fmt.Fprintf(out, "%s: %s\n", name, color.RedString("%d overdue day(s)", len(dates)))
	for _, d := range dates {
		fmt.Fprintf(out, "  %s  %s (%s)\n", d, service.DisplayDate(d), d.Weekday())
	}
}
