package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/residencia-tech/relatorio-api/internal/dto"
)

func score(v float64) *float64 { return &v }

func text(v string) *string { return &v }

func sampleRows() []dto.ParticipationRow {
	return []dto.ParticipationRow{
		{
			Student:     "Ana Souza",
			Email:       "ana@example.com",
			Group:       "Turma A",
			Activity:    "Projeto Final",
			Score:       score(8.5),
			GradeLetter: text("A"),
			Attended:    true,
			Hours:       score(40),
			Instructors: "Marcos, Paula",
			Status:      dto.StatusApproved,
		},
		{
			Student:  "Bruno Lima",
			Email:    "bruno@example.com",
			Group:    "Turma A",
			Activity: "Projeto Final",
			Attended: false,
			Status:   dto.StatusPending,
		},
	}
}

func sampleResult(kind dto.ReportKind) dto.ReportResult {
	return dto.ReportResult{
		Kind: kind,
		Rows: sampleRows(),
		Statistics: dto.ReportStatistics{
			Total:                 2,
			MeanScore:             8.5,
			AttendanceRatePercent: 50,
			ApprovedCount:         1,
			FailedCount:           0,
		},
	}
}

func TestRowCellsSubstitutesPlaceholders(t *testing.T) {
	rows := sampleRows()

	graded := RowCells(rows[0])
	require.Equal(t, []string{"Ana Souza", "ana@example.com", "Turma A", "Projeto Final", "8.5", "A", "Presente", "40", "Aprovado", "Marcos, Paula"}, graded)

	pending := RowCells(rows[1])
	require.Equal(t, "-", pending[4])
	require.Equal(t, "-", pending[5])
	require.Equal(t, "Faltou", pending[6])
	require.Equal(t, "-", pending[7])
	require.Equal(t, "Pendente", pending[8])
	require.Equal(t, "-", pending[9])
}

func TestHeadersMatchColumns(t *testing.T) {
	headers := Headers()
	require.Len(t, headers, len(Columns))
	require.Equal(t, "Aluno", headers[0])
	require.Equal(t, "Professor(es)", headers[len(headers)-1])
}

func TestExcelRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Excel(context.Background(), &buf, sampleRows()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Relatório")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, Headers(), rows[0])
	require.Equal(t, RowCells(sampleRows()[0]), rows[1])
	require.Equal(t, RowCells(sampleRows()[1]), rows[2])
}

func TestExcelHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Excel(ctx, &buf, sampleRows())
	require.ErrorIs(t, err, context.Canceled)
}

func TestPDFOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(context.Background(), &buf, sampleRows()))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPDFPaginatesLongReports(t *testing.T) {
	rows := make([]dto.ParticipationRow, 60)
	for i := range rows {
		rows[i] = dto.ParticipationRow{Student: "Aluno", Status: dto.StatusPending}
	}

	var buf bytes.Buffer
	require.NoError(t, PDF(context.Background(), &buf, rows))

	// 60 rows at 20pt pitch cannot fit between y=120 and y=500 on one page.
	pages := bytes.Count(buf.Bytes(), []byte("/Type /Page")) - bytes.Count(buf.Bytes(), []byte("/Type /Pages"))
	require.Greater(t, pages, 1)
}

func TestPDFHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := PDF(ctx, &buf, sampleRows())
	require.ErrorIs(t, err, context.Canceled)
}

func TestHTMLReportEscapesValues(t *testing.T) {
	result := sampleResult(dto.ReportDetailed)
	result.Rows[0].Student = `<script>alert("x")</script>`

	var buf bytes.Buffer
	require.NoError(t, HTMLReport(&buf, result, dto.ReportFilter{GroupID: 1}))

	page := buf.String()
	require.NotContains(t, page, "<script>alert")
	require.Contains(t, page, "&lt;script&gt;")
}

func TestHTMLReportStatsOnlyWhenDetailed(t *testing.T) {
	var detailed bytes.Buffer
	require.NoError(t, HTMLReport(&detailed, sampleResult(dto.ReportDetailed), dto.ReportFilter{GroupID: 1}))
	require.Contains(t, detailed.String(), "Média Notas")
	require.Contains(t, detailed.String(), "8.50")

	var list bytes.Buffer
	require.NoError(t, HTMLReport(&list, sampleResult(dto.ReportListOnly), dto.ReportFilter{GroupID: 1}))
	require.NotContains(t, list.String(), "Média Notas")
	// The table itself is always rendered.
	require.Contains(t, list.String(), "Bruno Lima")
}

func TestHTMLReportCarriesFilterInDownloadLinks(t *testing.T) {
	filter := dto.ReportFilter{GroupID: 3, GradeLetter: "B", Status: dto.StatusApproved}

	var buf bytes.Buffer
	require.NoError(t, HTMLReport(&buf, sampleResult(dto.ReportDetailed), filter))

	// Ampersands are attribute-escaped by the template engine.
	escapedQuery := strings.ReplaceAll(DownloadQuery(filter), "&", "&amp;")

	page := buf.String()
	require.Contains(t, page, "/download/excel?"+escapedQuery)
	require.Contains(t, page, "/download/pdf?"+escapedQuery)
	require.Contains(t, DownloadQuery(filter), "turma_id=3")
	require.Contains(t, DownloadQuery(filter), "conceito=B")
}

func TestHTMLFormListsOptions(t *testing.T) {
	options := dto.FilterOptions{
		Groups:      []dto.Option{{ID: 1, Name: "Turma A"}},
		Instructors: []dto.Option{{ID: 2, Name: "Marcos"}},
		Activities:  []dto.Option{{ID: 3, Name: "Projeto"}},
	}

	var buf bytes.Buffer
	require.NoError(t, HTMLForm(&buf, options))

	page := buf.String()
	require.Contains(t, page, `<option value="1">Turma A</option>`)
	require.Contains(t, page, "Marcos")
	require.Contains(t, page, "Projeto")
	require.Contains(t, page, `action="/relatorio"`)
}

func TestRenderersAgreeOnRowValues(t *testing.T) {
	rows := sampleRows()

	var html bytes.Buffer
	require.NoError(t, HTMLReport(&html, sampleResult(dto.ReportDetailed), dto.ReportFilter{GroupID: 1}))

	var xlsx bytes.Buffer
	require.NoError(t, Excel(context.Background(), &xlsx, rows))
	f, err := excelize.OpenReader(bytes.NewReader(xlsx.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	sheetRows, err := f.GetRows("Relatório")
	require.NoError(t, err)

	require.Equal(t, len(rows)+1, len(sheetRows))
	for i, row := range rows {
		cells := RowCells(row)
		require.Equal(t, cells, sheetRows[i+1])
		for _, cell := range cells {
			if strings.ContainsAny(cell, "<>&") {
				continue
			}
			require.Contains(t, html.String(), ">"+cell+"<")
		}
	}
}
