package models

// Student represents a learner enrolled in one or more groups.
type Student struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"column:nome;size:255;not null" json:"name"`
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`
}

// TableName maps the model onto the legacy schema.
func (Student) TableName() string { return "alunos" }

// Group represents a cohort ("turma") taught by one or more instructors.
type Group struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"column:nome;size:255;not null" json:"name"`
	Instructors []Instructor `gorm:"many2many:professor_turma;joinForeignKey:turma_id;joinReferences:professor_id" json:"instructors,omitempty"`
}

func (Group) TableName() string { return "turmas" }

// Activity represents a graded activity students participate in.
type Activity struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:nome;size:255;not null" json:"name"`
}

func (Activity) TableName() string { return "atividades" }

// Instructor represents a professor associated with one or more groups.
type Instructor struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:nome;size:255;not null" json:"name"`
}

func (Instructor) TableName() string { return "professores" }

// Participation records one student's outcome for one activity within one group.
// Score, grade letter and hours are nullable: a missing score means the
// participation has not been graded yet.
type Participation struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	StudentID   uint     `gorm:"column:aluno_id;not null" json:"student_id"`
	GroupID     uint     `gorm:"column:turma_id;not null" json:"group_id"`
	ActivityID  uint     `gorm:"column:atividade_id;not null" json:"activity_id"`
	Score       *float64 `gorm:"column:nota" json:"score"`
	GradeLetter *string  `gorm:"column:conceito;size:1" json:"grade_letter"`
	Attended    bool     `gorm:"column:presenca;not null" json:"attended"`
	Hours       *float64 `gorm:"column:horas" json:"hours"`

	Student  Student  `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Group    Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Activity Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
}

func (Participation) TableName() string { return "participacoes" }
