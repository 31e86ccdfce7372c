package render

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/residencia-tech/relatorio-api/internal/dto"
)

// ExcelContentType is the MIME type announced for XLSX downloads.
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelFilename is the suggested name for XLSX downloads.
const ExcelFilename = "relatorio.xlsx"

const excelSheetName = "Relatório"

// Excel writes the rows as an XLSX workbook with the shared header row.
// Cancellation is checked between rows so an abandoned download stops early.
func Excel(ctx context.Context, w io.Writer, rows []dto.ParticipationRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), excelSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := Headers()
	if err := setRow(f, 1, headers); err != nil {
		return err
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := setRow(f, i+2, RowCells(row)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowIndex int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(cells))
	for i, value := range cells {
		values[i] = value
	}

	if err := f.SetSheetRow(excelSheetName, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", rowIndex, err)
	}
	return nil
}
