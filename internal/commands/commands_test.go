package commands

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexdesk/pkg/civil"
)

func TestPrintOverdue(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	printOverdue(&out, "Anna", []civil.Date{civil.MustParseDate("2026-01-27")})
	assert.Equal(t, "Anna: 1 overdue day(s)\n  2026-01-27  27.01.2026 (Tuesday)\n", out.String())

	out.Reset()
	printOverdue(&out, "Anna", nil)
	assert.Equal(t, "Anna: no overdue days\n", out.String())
}

func TestCommandTree(t *testing.T) {
	root := &cobra.Command{Use: "lexdesk"}
	root.AddCommand(NewServeCmd(), NewOverdueCmd(), NewHolidaysCmd(), NewClientsCmd(), NewUsersCmd())

	for _, path := range [][]string{
		{"serve"},
		{"overdue"},
		{"holidays", "import"},
		{"clients", "import"},
		{"users", "create-admin"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}

	overdue, _, err := root.Find([]string{"overdue"})
	require.NoError(t, err)
	assert.NotNil(t, overdue.Flags().Lookup("email"))
	assert.NotNil(t, overdue.Flags().Lookup("now"))
}
