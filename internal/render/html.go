package render

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/residencia-tech/relatorio-api/internal/dto"
)

const formPageTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>Gerar Relatório</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 20px; }
    h1 { color: #007bff; }
    label { display: block; margin-top: 10px; font-weight: bold; }
    select, input { padding: 5px; width: 250px; }
    button { margin-top: 15px; padding: 10px 15px; background: #007bff; color: white; border: none; border-radius: 4px; cursor: pointer; }
    button:hover { background: #0056b3; }
  </style>
</head>
<body>
  <h1>Gerar Relatório da Turma</h1>
  <form method="POST" action="/relatorio">
    <label>Turma:</label>
    <select name="turma_id">
      {{range .Groups}}<option value="{{.ID}}">{{.Name}}</option>{{end}}
    </select>

    <label>Professor (opcional):</label>
    <select name="professor_id">
      <option value="">-- Todos --</option>
      {{range .Instructors}}<option value="{{.ID}}">{{.Name}}</option>{{end}}
    </select>

    <label>Atividade (opcional):</label>
    <select name="atividade_id">
      <option value="">-- Todas --</option>
      {{range .Activities}}<option value="{{.ID}}">{{.Name}}</option>{{end}}
    </select>

    <label>Presença:</label>
    <select name="presenca">
      <option value="">-- Todas --</option>
      <option value="Presente">Presente</option>
      <option value="Faltou">Faltou</option>
    </select>

    <label>Conceito:</label>
    <select name="conceito">
      <option value="">-- Todos --</option>
      <option value="A">A</option>
      <option value="B">B</option>
      <option value="C">C</option>
      <option value="D">D</option>
      <option value="E">E</option>
    </select>

    <label>Status:</label>
    <select name="status">
      <option value="">-- Todos --</option>
      <option value="Aprovado">Aprovado</option>
      <option value="Reprovado">Reprovado</option>
      <option value="Pendente">Pendente</option>
    </select>

    <label>Tipo de relatório:</label>
    <select name="tipo">
      <option value="detalhado">Detalhado + Estatísticas</option>
      <option value="lista">Lista Filtrada</option>
    </select>

    <button type="submit">Gerar Relatório</button>
  </form>
</body>
</html>
`

const reportPageTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>Relatório</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 20px; }
    h1 { color: #007bff; }
    .stats { display: flex; gap: 20px; margin-bottom: 20px; }
    .card { padding: 10px 20px; background: #f8f9fa; border-radius: 6px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; }
    th, td { border: 1px solid #ddd; padding: 8px; text-align: center; }
    th { background: #007bff; color: white; }
    .btn { margin-right: 10px; padding: 8px 12px; border-radius: 4px; text-decoration: none; color: white; }
    .excel { background: green; }
    .pdf { background: red; }
  </style>
</head>
<body>
  <h1>Relatório Gerado</h1>

  {{if .ShowStats}}
  <div class="stats">
    <div class="card"><b>{{.Stats.Total}}</b><br/>Total</div>
    <div class="card"><b>{{.Stats.MeanScore}}</b><br/>Média Notas</div>
    <div class="card"><b>{{.Stats.AttendanceRate}}%</b><br/>Frequência</div>
    <div class="card"><b>{{.Stats.Approved}}</b><br/>Aprovados</div>
    <div class="card"><b>{{.Stats.Failed}}</b><br/>Reprovados</div>
  </div>
  {{end}}

  <table>
    <tr>
      {{range .Headers}}<th>{{.}}</th>{{end}}
    </tr>
    {{range .Rows}}
    <tr>
      {{range .}}<td>{{.}}</td>{{end}}
    </tr>
    {{end}}
  </table>

  <p>
    <a class="btn excel" href="/download/excel?{{.DownloadQuery}}">Baixar Excel</a>
    <a class="btn pdf" href="/download/pdf?{{.DownloadQuery}}">Baixar PDF</a>
  </p>
</body>
</html>
`

var (
	formPage   = template.Must(template.New("form").Parse(formPageTemplate))
	reportPage = template.Must(template.New("report").Parse(reportPageTemplate))
)

type statsView struct {
	Total          int
	MeanScore      string
	AttendanceRate string
	Approved       int
	Failed         int
}

type reportView struct {
	ShowStats     bool
	Stats         statsView
	Headers       []string
	Rows          [][]string
	DownloadQuery template.URL
}

// HTMLForm renders the filter form page with the selectable options.
func HTMLForm(w io.Writer, options dto.FilterOptions) error {
	return formPage.Execute(w, options)
}

// HTMLReport renders the report page. The statistics block is shown only for
// detailed reports; the rows table is always rendered. All values pass through
// the template engine's contextual escaping.
func HTMLReport(w io.Writer, result dto.ReportResult, filter dto.ReportFilter) error {
	rows := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, RowCells(row))
	}

	view := reportView{
		ShowStats: result.Kind == dto.ReportDetailed,
		Stats: statsView{
			Total:          result.Statistics.Total,
			MeanScore:      fmt.Sprintf("%.2f", result.Statistics.MeanScore),
			AttendanceRate: fmt.Sprintf("%.1f", result.Statistics.AttendanceRatePercent),
			Approved:       result.Statistics.ApprovedCount,
			Failed:         result.Statistics.FailedCount,
		},
		Headers:       Headers(),
		Rows:          rows,
		DownloadQuery: template.URL(DownloadQuery(filter)),
	}

	return reportPage.Execute(w, view)
}

// DownloadQuery encodes a filter as the query string carried by the export
// links, so downloads reproduce exactly the filtered set on screen.
func DownloadQuery(filter dto.ReportFilter) string {
	values := url.Values{}
	values.Set("turma_id", strconv.FormatUint(uint64(filter.GroupID), 10))
	if filter.InstructorID != 0 {
		values.Set("professor_id", strconv.FormatUint(uint64(filter.InstructorID), 10))
	}
	if filter.ActivityID != 0 {
		values.Set("atividade_id", strconv.FormatUint(uint64(filter.ActivityID), 10))
	}
	if filter.Attendance != "" {
		values.Set("presenca", string(filter.Attendance))
	}
	if filter.GradeLetter != "" {
		values.Set("conceito", filter.GradeLetter)
	}
	if filter.Status != "" {
		values.Set("status", string(filter.Status))
	}
	return values.Encode()
}
