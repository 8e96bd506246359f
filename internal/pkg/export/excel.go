package export

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

// Fill colors for the status column, keyed by status value.
var statusFills = map[string]string{
	"green": "C6EFCE",
	"amber": "FFEB9C",
	"red":   "FFC7CE",
}

// WriteXLSX serialises export rows to a spreadsheet with a styled header
// row and the status cells colored by status value.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	for col, header := range Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	statusCol := len(Headers) - 2 // "Status" position in Headers
	for i, row := range rows {
		for col, value := range row.fields() {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
			if col == statusCol {
				if fill, ok := statusFills[row.Status]; ok {
					style, err := f.NewStyle(&excelize.Style{
						Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
					})
					if err != nil {
						return err
					}
					if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
						return err
					}
				}
			}
		}
	}

	// Widen columns to fit typical content
	if err := f.SetColWidth(sheetName, "A", "J", 16); err != nil {
		return err
	}

	return f.Write(w)
}
