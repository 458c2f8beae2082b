package export

import (
	"io"
	"strconv"

	"github.com/joelkehle/gtap-site/internal/ranking"
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Rankings"

// WriteXLSX writes items as a single-sheet workbook with the same columns as
// the CSV export. Numeric columns are stored as numbers.
func WriteXLSX(w io.Writer, items []ranking.Institution, shape Shape) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return eris.Wrap(err, "rename sheet")
	}
	header := Header(shape)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return eris.Wrap(err, "header cell")
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return eris.Wrapf(err, "write header %s", name)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return eris.Wrap(err, "header style")
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return eris.Wrap(err, "apply header style")
	}

	numeric := numericColumns(shape)
	for i, in := range items {
		for col, v := range Row(in, shape) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return eris.Wrap(err, "row cell")
			}
			var value any = v
			if numeric[col] {
				if n, err := strconv.Atoi(v); err == nil {
					value = n
				}
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return eris.Wrapf(err, "write %s", cell)
			}
		}
	}
	if err := f.SetColWidth(sheetName, "A", "B", 14); err != nil {
		return eris.Wrap(err, "set column width")
	}
	if _, err := f.WriteTo(w); err != nil {
		return eris.Wrap(err, "write workbook")
	}
	return nil
}

func numericColumns(shape Shape) map[int]bool {
	if shape == ShapeSummary {
		return map[int]bool{0: true}
	}
	return map[int]bool{0: true, 1: true, 8: true}
}
