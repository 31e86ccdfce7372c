package dto

import "errors"

// ErrInvalidFilter marks a report filter that is missing its group or carries
// malformed values. The pipeline never reaches the database when it is returned.
var ErrInvalidFilter = errors.New("invalid report filter")

// Attendance is the two-valued presence label used on the wire and in exports.
type Attendance string

// Attendance labels kept stable for spreadsheet round-trips.
const (
	AttendancePresent Attendance = "Presente"
	AttendanceAbsent  Attendance = "Faltou"
)

// Status classifies a participation from its score. It is derived, never stored.
type Status string

// Status labels kept stable for spreadsheet round-trips.
const (
	StatusApproved Status = "Aprovado"
	StatusFailed   Status = "Reprovado"
	StatusPending  Status = "Pendente"
)

// ReportKind selects report verbosity: detailed adds summary statistics.
type ReportKind string

const (
	ReportDetailed ReportKind = "detalhado"
	ReportListOnly ReportKind = "lista"
)

// ReportFilter captures the requested slice of participation data. GroupID is
// the only required field; absent optional fields impose no constraint.
type ReportFilter struct {
	GroupID      uint       `json:"turma_id" validate:"required,gt=0"`
	InstructorID uint       `json:"professor_id" validate:"omitempty,gt=0"`
	ActivityID   uint       `json:"atividade_id" validate:"omitempty,gt=0"`
	Attendance   Attendance `json:"presenca" validate:"omitempty,oneof=Presente Faltou"`
	GradeLetter  string     `json:"conceito" validate:"omitempty,oneof=A B C D E"`
	Status       Status     `json:"status" validate:"omitempty,oneof=Aprovado Reprovado Pendente"`
	Kind         ReportKind `json:"tipo" validate:"omitempty,oneof=detalhado lista"`
}

// ParticipationRow is the canonical row shape every renderer consumes.
// One row joins exactly one student, group and activity; instructor names are
// aggregated into a single comma-joined label so the group-to-instructor
// fan-out never duplicates rows.
type ParticipationRow struct {
	Student     string   `json:"aluno"`
	Email       string   `json:"email"`
	Group       string   `json:"turma"`
	Activity    string   `json:"atividade"`
	Score       *float64 `json:"nota"`
	GradeLetter *string  `json:"conceito"`
	Attended    bool     `json:"presenca"`
	Hours       *float64 `json:"horas"`
	Instructors string   `json:"professores"`
	Status      Status   `json:"status"`
}

// ReportStatistics summarises a final row set. Values are unrounded; display
// formatting belongs to the renderers.
type ReportStatistics struct {
	Total                 int     `json:"total"`
	MeanScore             float64 `json:"media_notas"`
	AttendanceRatePercent float64 `json:"frequencia"`
	ApprovedCount         int     `json:"aprovados"`
	FailedCount           int     `json:"reprovados"`
}

// ReportResult is the single payload all renderers consume. Statistics are
// always computed; list-only views simply withhold them.
type ReportResult struct {
	Kind       ReportKind         `json:"tipo"`
	Rows       []ParticipationRow `json:"rows"`
	Statistics ReportStatistics   `json:"statistics"`
}

// Option is an id/name pair used to populate the filter form dropdowns.
type Option struct {
	ID   uint   `json:"id"`
	Name string `json:"nome"`
}

// FilterOptions lists the selectable groups, instructors and activities.
type FilterOptions struct {
	Groups      []Option `json:"turmas"`
	Instructors []Option `json:"professores"`
	Activities  []Option `json:"atividades"`
}
