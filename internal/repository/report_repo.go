package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/residencia-tech/relatorio-api/internal/dto"
)

// ParticipationRepository fetches raw participation rows for a report filter.
type ParticipationRepository interface {
	ListForReport(ctx context.Context, filter dto.ReportFilter) ([]dto.ParticipationRow, error)
}

type participationRepository struct {
	db *gorm.DB
}

// NewParticipationRepository constructs the participation repository.
func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &participationRepository{db: db}
}

const reportBaseQuery = `SELECT alunos.nome AS aluno, alunos.email AS email,
       turmas.nome AS turma, atividades.nome AS atividade,
       participacoes.nota AS nota, participacoes.conceito AS conceito,
       participacoes.presenca AS presenca, participacoes.horas AS horas,
       string_agg(DISTINCT professores.nome, ', ') AS professores
FROM participacoes
JOIN alunos ON alunos.id = participacoes.aluno_id
JOIN turmas ON turmas.id = participacoes.turma_id
JOIN atividades ON atividades.id = participacoes.atividade_id
LEFT JOIN professor_turma ON professor_turma.turma_id = turmas.id
LEFT JOIN professores ON professores.id = professor_turma.professor_id
WHERE turmas.id = ?`

// Grouping by the participation natural key collapses the instructor fan-out
// into one row per participation record.
const reportGroupOrder = `
GROUP BY alunos.id, alunos.nome, alunos.email, turmas.id, turmas.nome,
         atividades.id, atividades.nome, participacoes.id
ORDER BY alunos.nome ASC`

type predicate struct {
	column string
	value  any
}

// BuildReportQuery assembles the parameterized report statement for a filter.
// Optional predicates are appended mechanically in a fixed order, each binding
// one placeholder, so there is no manual parameter-index bookkeeping. The
// status filter is deliberately absent: status is derived after grouping and
// applied post-hoc by the service.
func BuildReportQuery(filter dto.ReportFilter) (string, []any, error) {
	if filter.GroupID == 0 {
		return "", nil, dto.ErrInvalidFilter
	}

	predicates := make([]predicate, 0, 4)
	if filter.InstructorID != 0 {
		predicates = append(predicates, predicate{column: "professores.id", value: filter.InstructorID})
	}
	if filter.ActivityID != 0 {
		predicates = append(predicates, predicate{column: "atividades.id", value: filter.ActivityID})
	}
	if filter.Attendance != "" {
		predicates = append(predicates, predicate{column: "participacoes.presenca", value: filter.Attendance == dto.AttendancePresent})
	}
	if filter.GradeLetter != "" {
		predicates = append(predicates, predicate{column: "participacoes.conceito", value: filter.GradeLetter})
	}

	var query strings.Builder
	query.WriteString(reportBaseQuery)

	args := make([]any, 0, len(predicates)+1)
	args = append(args, filter.GroupID)
	for _, p := range predicates {
		query.WriteString(" AND ")
		query.WriteString(p.column)
		query.WriteString(" = ?")
		args = append(args, p.value)
	}

	query.WriteString(reportGroupOrder)

	return query.String(), args, nil
}

type participationRecord struct {
	Student     string   `gorm:"column:aluno"`
	Email       string   `gorm:"column:email"`
	Group       string   `gorm:"column:turma"`
	Activity    string   `gorm:"column:atividade"`
	Score       *float64 `gorm:"column:nota"`
	GradeLetter *string  `gorm:"column:conceito"`
	Attended    bool     `gorm:"column:presenca"`
	Hours       *float64 `gorm:"column:horas"`
	Instructors *string  `gorm:"column:professores"`
}

func (r *participationRepository) ListForReport(ctx context.Context, filter dto.ReportFilter) ([]dto.ParticipationRow, error) {
	query, args, err := BuildReportQuery(filter)
	if err != nil {
		return nil, err
	}

	var records []participationRecord
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&records).Error; err != nil {
		return nil, err
	}

	rows := make([]dto.ParticipationRow, 0, len(records))
	for _, record := range records {
		instructors := ""
		if record.Instructors != nil {
			instructors = *record.Instructors
		}
		rows = append(rows, dto.ParticipationRow{
			Student:     record.Student,
			Email:       record.Email,
			Group:       record.Group,
			Activity:    record.Activity,
			Score:       record.Score,
			GradeLetter: record.GradeLetter,
			Attended:    record.Attended,
			Hours:       record.Hours,
			Instructors: instructors,
		})
	}

	return rows, nil
}
