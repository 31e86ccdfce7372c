// Package render turns one canonical report result into the HTML, XLSX and
// PDF output forms. All three renderers consume the same column schema and the
// same formatted cell values so the outputs cannot drift apart.
package render

import (
	"strconv"

	"github.com/residencia-tech/relatorio-api/internal/dto"
)

// placeholder substitutes null score, grade and hours in every output form.
const placeholder = "-"

// Column describes one report column: its display title and its PDF width in
// points.
type Column struct {
	Title string
	Width float64
}

// Columns is the shared report table layout. Titles are the stable localized
// headers; widths match the landscape PDF layout.
var Columns = []Column{
	{Title: "Aluno", Width: 80},
	{Title: "Email", Width: 120},
	{Title: "Turma", Width: 60},
	{Title: "Atividade", Width: 100},
	{Title: "Nota", Width: 40},
	{Title: "Conceito", Width: 60},
	{Title: "Presença", Width: 60},
	{Title: "Horas", Width: 50},
	{Title: "Status", Width: 80},
	{Title: "Professor(es)", Width: 120},
}

// Headers returns the column titles in display order.
func Headers() []string {
	titles := make([]string, len(Columns))
	for i, column := range Columns {
		titles[i] = column.Title
	}
	return titles
}

// RowCells formats one participation row into display cells, one per column.
func RowCells(row dto.ParticipationRow) []string {
	return []string{
		row.Student,
		row.Email,
		row.Group,
		row.Activity,
		formatNumber(row.Score),
		formatText(row.GradeLetter),
		attendanceLabel(row.Attended),
		formatNumber(row.Hours),
		string(row.Status),
		formatInstructors(row.Instructors),
	}
}

func formatNumber(value *float64) string {
	if value == nil {
		return placeholder
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func formatText(value *string) string {
	if value == nil || *value == "" {
		return placeholder
	}
	return *value
}

func formatInstructors(value string) string {
	if value == "" {
		return placeholder
	}
	return value
}

func attendanceLabel(attended bool) string {
	if attended {
		return string(dto.AttendancePresent)
	}
	return string(dto.AttendanceAbsent)
}
