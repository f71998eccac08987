package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"lexdesk/internal/models"
)

const billingSheet = "Billing"

var documentTitles = map[string]string{
	models.DocumentKindServiceDescription: "Service description",
	models.DocumentKindInvoice:            "Invoice",
}

// WriteBillingWorkbook пишет документ в xlsx: шапка, строка на запись, итог.
func WriteBillingWorkbook(w io.Writer, doc *models.BillingDocument, client *models.Client, lines []models.DocumentLine) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), billingSheet); err != nil {
		return err
	}

	title := documentTitles[doc.Kind]
	if title == "" {
		title = doc.Kind
	}
	header := [][]interface{}{
		{title, doc.Number},
		{"Client", client.Name},
		{"VAT", client.VATNumber},
		{"Period", fmt.Sprintf("%s - %s", doc.PeriodStart, doc.PeriodEnd)},
		{"Rate", client.HourlyRate.StringFixed(2) + " " + doc.Currency},
		{},
		{"Date", "Lawyer", "Topic", "Description", "Hours", "Amount"},
	}
	row := 1
	for _, values := range header {
		if err := setRow(f, row, values); err != nil {
			return err
		}
		row++
	}
	tableHeader := row - 1

	for _, line := range lines {
		values := []interface{}{
			line.Date.String(),
			line.Lawyer,
			line.Topic,
			line.Description,
			hours(line.Minutes).InexactFloat64(),
			line.Amount.InexactFloat64(),
		}
		if err := setRow(f, row, values); err != nil {
			return err
		}
		row++
	}

	total := []interface{}{"Total", "", "", "", doc.TotalHours().InexactFloat64(), doc.Amount.InexactFloat64()}
	if err := setRow(f, row, total); err != nil {
		return err
	}

	if err := styleRows(f, tableHeader, row); err != nil {
		return err
	}
	if err := f.SetColWidth(billingSheet, "D", "D", 60); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(billingSheet, cell, &values)
}

func styleRows(f *excelize.File, rows ...int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for _, row := range rows {
		from, _ := excelize.CoordinatesToCellName(1, row)
		to, _ := excelize.CoordinatesToCellName(6, row)
		if err := f.SetCellStyle(billingSheet, from, to, bold); err != nil {
			return err
		}
	}
	return nil
}

func hours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}
