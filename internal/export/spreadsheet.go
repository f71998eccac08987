// Package export читает и пишет таблицы: выгрузка документов для клиентов
// и импорт справочника клиентов.
package export

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ClientRow — строка импорта клиентов
type ClientRow struct {
	Line      int
	Name      string
	Email     string
	VATNumber string
	Address   string
	Rate      *decimal.Decimal
	Currency  string
}

// ReadClientRows читает клиентов из .xlsx или старого .xls.
// Первая строка — заголовок, колонка name обязательна.
func ReadClientRows(reader io.Reader, filename string) ([]ClientRow, error) {
	rows, err := readRowsFromSpreadsheet(reader, filename)
	if err != nil {
		return nil, err
	}

	header := map[string]int{}
	for i, cell := range rows[0] {
		header[normalizeHeader(cell)] = i
	}
	nameIdx, ok := header["name"]
	if !ok {
		return nil, fmt.Errorf("header row has no name column")
	}
	column := func(names ...string) int {
		for _, n := range names {
			if idx, ok := header[n]; ok {
				return idx
			}
		}
		return -1
	}
	emailIdx := column("email")
	vatIdx := column("vat", "vat_number")
	addressIdx := column("address")
	rateIdx := column("rate", "hourly_rate")
	currencyIdx := column("currency")

	result := make([]ClientRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		name := cellValue(row, nameIdx)
		if name == "" {
			continue
		}
		client := ClientRow{
			Line:      i + 2,
			Name:      name,
			Email:     cellValue(row, emailIdx),
			VATNumber: cellValue(row, vatIdx),
			Address:   cellValue(row, addressIdx),
			Currency:  strings.ToUpper(cellValue(row, currencyIdx)),
		}
		if raw := cellValue(row, rateIdx); raw != "" {
			rate, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid rate %q", client.Line, raw)
			}
			client.Rate = &rate
		}
		result = append(result, client)
	}
	return result, nil
}

func readRowsFromSpreadsheet(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := workbook.ReadAllCells(100000)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	case ".xlsx":
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}

		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported spreadsheet type %q", ext)
	}
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
