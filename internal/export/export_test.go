package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"lexdesk/internal/models"
	"lexdesk/pkg/civil"
)

func TestWriteBillingWorkbook(t *testing.T) {
	doc := &models.BillingDocument{
		Number:       "01JH0000000000000000000000",
		Kind:         models.DocumentKindInvoice,
		PeriodStart:  civil.MustParseDate("2026-01-01"),
		PeriodEnd:    civil.MustParseDate("2026-01-31"),
		TotalMinutes: 150,
		Amount:       decimal.RequireFromString("375.00"),
		Currency:     "EUR",
	}
	client := &models.Client{Name: "Acme Ltd", HourlyRate: decimal.NewFromInt(150), Currency: "EUR"}
	lines := []models.DocumentLine{
		{Date: civil.MustParseDate("2026-01-26"), Lawyer: "Anna", Topic: "Litigation", Description: "hearing", Minutes: 90, Amount: decimal.NewFromInt(225)},
		{Date: civil.MustParseDate("2026-01-27"), Lawyer: "Boris", Description: "call", Minutes: 60, Amount: decimal.NewFromInt(150)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBillingWorkbook(&buf, doc, client, lines))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(billingSheet)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, []string{"Invoice", doc.Number}, rows[0])
	assert.Equal(t, "Acme Ltd", rows[1][1])
	assert.Equal(t, "Date", rows[6][0])
	assert.Equal(t, "2026-01-26", rows[7][0])
	assert.Equal(t, "1.5", rows[7][4])
	assert.Equal(t, "Total", rows[9][0])
	assert.Equal(t, "375", rows[9][5])
}

func clientWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		v := values
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &v))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestReadClientRows_XLSX(t *testing.T) {
	buf := clientWorkbook(t, [][]interface{}{
		{" Name ", "Email", "VAT", "Rate", "Currency"},
		{"Acme Ltd", "office@acme.bg", "BG123", "150,50", "eur"},
		{"", "skipped@x.bg"},
		{"Beta", "", "", "", ""},
	})

	rows, err := ReadClientRows(buf, "clients.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Acme Ltd", rows[0].Name)
	assert.Equal(t, "EUR", rows[0].Currency)
	require.NotNil(t, rows[0].Rate)
	assert.Equal(t, "150.5", rows[0].Rate.String())
	assert.Equal(t, 2, rows[0].Line)

	assert.Equal(t, "Beta", rows[1].Name)
	assert.Nil(t, rows[1].Rate)
	assert.Equal(t, 4, rows[1].Line)
}

func TestReadClientRows_Errors(t *testing.T) {
	_, err := ReadClientRows(clientWorkbook(t, [][]interface{}{{"client", "email"}, {"Acme"}}), "c.xlsx")
	assert.ErrorContains(t, err, "name column")

	_, err = ReadClientRows(clientWorkbook(t, [][]interface{}{{"name", "rate"}, {"Acme", "abc"}}), "c.xlsx")
	assert.ErrorContains(t, err, "invalid rate")

	_, err = ReadClientRows(bytes.NewBufferString("a,b"), "clients.csv")
	assert.ErrorContains(t, err, "unsupported")
}
