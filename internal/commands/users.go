package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lexdesk/internal/models"
)

// NewUsersCmd создает группу команд users.
func NewUsersCmd() *cobra.Command {
	var email, name, password string

	create := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			a, err := newApp(loadConfig())
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.users.CreateUser(email, name, password, models.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s> (id %d)\n", color.GreenString("Administrator created:"), user.Name, user.Email, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "login email")
	create.Flags().StringVar(&name, "name", "Administrator", "display name")
	create.Flags().StringVar(&password, "password", "", "password (at least 12 characters)")
	_ = create.MarkFlagRequired("email")

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(create)
	return cmd
}
