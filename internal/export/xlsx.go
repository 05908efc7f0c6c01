package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rubricware/rubrichub/internal/rubric"
)

const sheetName = "Rubric"

func writeXLSX(w io.Writer, in *rubric.Instance) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if errRename := f.SetSheetName("Sheet1", sheetName); errRename != nil {
		return fmt.Errorf("export: name sheet: %w", errRename)
	}

	headerStyle, errStyle := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if errStyle != nil {
		return fmt.Errorf("export: header style: %w", errStyle)
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if errHeader := f.SetSheetRow(sheetName, "A1", &header); errHeader != nil {
		return fmt.Errorf("export: write header: %w", errHeader)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if errApply := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); errApply != nil {
		return fmt.Errorf("export: style header: %w", errApply)
	}

	for i, row := range in.Rows {
		values := rowValues(row)
		cells := make([]any, len(values))
		for j, v := range values {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if errRow := f.SetSheetRow(sheetName, cell, &cells); errRow != nil {
			return fmt.Errorf("export: write row: %w", errRow)
		}
	}

	if errWidth := f.SetColWidth(sheetName, "A", lastCol, 32); errWidth != nil {
		return fmt.Errorf("export: column width: %w", errWidth)
	}

	if _, errWrite := f.WriteTo(w); errWrite != nil {
		return fmt.Errorf("export: write workbook: %w", errWrite)
	}
	return nil
}
