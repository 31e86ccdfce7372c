package render

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/residencia-tech/relatorio-api/internal/dto"
)

// PDFContentType is the MIME type announced for PDF downloads.
const PDFContentType = "application/pdf"

// PDFFilename is the suggested name for PDF downloads.
const PDFFilename = "relatorio.pdf"

// Landscape A4 layout, in points. A row starting below pdfPageBottom moves to
// a new page; continuation pages start higher because they carry no title.
// The header row is not repeated on continuation pages.
const (
	pdfLeftMargin  = 30.0
	pdfTableTop    = 100.0
	pdfRowHeight   = 20.0
	pdfPageBottom  = 500.0
	pdfContinueTop = 50.0
)

// PDF writes the rows as a paginated landscape document using the shared
// column layout. Cancellation is checked between rows.
func PDF(ctx context.Context, w io.Writer, rows []dto.ParticipationRow) error {
	pdf := gofpdf.New("L", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pdfLeftMargin, pdfLeftMargin, pdfLeftMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 24, tr("Relatório da Turma"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	x := pdfLeftMargin
	for _, column := range Columns {
		pdf.SetXY(x, pdfTableTop)
		pdf.CellFormat(column.Width, pdfRowHeight, tr(column.Title), "", 0, "C", false, 0, "")
		x += column.Width
	}

	pdf.SetFont("Helvetica", "", 9)
	y := pdfTableTop + pdfRowHeight
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		x = pdfLeftMargin
		for i, cell := range RowCells(row) {
			pdf.SetXY(x, y)
			pdf.CellFormat(Columns[i].Width, pdfRowHeight, tr(cell), "", 0, "C", false, 0, "")
			x += Columns[i].Width
		}

		y += pdfRowHeight
		if y > pdfPageBottom {
			pdf.AddPage()
			y = pdfContinueTop
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
