package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// SheetName is the name of the only worksheet.
const SheetName = "Devis"

// Spreadsheet renders one row per quote. ok is false, with no artifact, when
// quotes is empty.
func Spreadsheet(quotes []quote.Quote, name string, now time.Time) (a Artifact, ok bool, err error) {
	if len(quotes) == 0 {
		return Artifact{}, false, nil
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return Artifact{}, false, fmt.Errorf("export: name sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.title
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return Artifact{}, false, err
		}
		if err := f.SetColWidth(SheetName, col, col, c.width); err != nil {
			return Artifact{}, false, fmt.Errorf("export: column width: %w", err)
		}
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return Artifact{}, false, fmt.Errorf("export: header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Artifact{}, false, fmt.Errorf("export: style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return Artifact{}, false, fmt.Errorf("export: style: %w", err)
	}

	for i, q := range quotes {
		cells := row(q)
		values := make([]any, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return Artifact{}, false, fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, false, fmt.Errorf("export: write workbook: %w", err)
	}
	return Artifact{
		Filename:    stamped(name, DefaultSpreadsheetName, ".xlsx", now),
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, true, nil
}
