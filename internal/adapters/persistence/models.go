package persistence

import (
	"time"
)

// ProjectRunModel represents the project_runs table
type ProjectRunModel struct {
	ID               string     `gorm:"column:id;primaryKey;not null"`
	Name             string     `gorm:"column:name;index;not null"`
	Status           string     `gorm:"column:status;index;not null"`
	Config           string     `gorm:"column:config;type:text"`  // JSON as text
	Outputs          string     `gorm:"column:outputs;type:text"` // JSON as text
	Error            string     `gorm:"column:error;type:text"`
	StartedAt        time.Time  `gorm:"column:started_at;index;not null"`
	FinishedAt       *time.Time `gorm:"column:finished_at"`
	TotalCapex       float64    `gorm:"column:total_capex"`
	BOSCapex         float64    `gorm:"column:bos_capex"`
	InstallationTime float64    `gorm:"column:installation_time"`
	ProjectTime      float64    `gorm:"column:project_time"`
	NPV              *float64   `gorm:"column:npv"`

	Phases []PhaseResultModel `gorm:"foreignKey:RunID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ProjectRunModel) TableName() string {
	return "project_runs"
}

// PhaseResultModel represents the phase_results table
type PhaseResultModel struct {
	ID               int     `gorm:"column:id;primaryKey;autoIncrement"`
	RunID            string  `gorm:"column:run_id;index;not null"`
	Position         int     `gorm:"column:position;not null"`
	Name             string  `gorm:"column:name;not null"`
	Kind             string  `gorm:"column:kind;not null"`
	Category         string  `gorm:"column:category"`
	Start            float64 `gorm:"column:start"`
	Duration         float64 `gorm:"column:duration"`
	SystemCost       float64 `gorm:"column:system_cost"`
	InstallationCost float64 `gorm:"column:installation_cost"`
	Error            string  `gorm:"column:error;type:text"`
}

func (PhaseResultModel) TableName() string {
	return "phase_results"
}

// ActionLogModel represents the action_logs table
type ActionLogModel struct {
	ID       int     `gorm:"column:id;primaryKey;autoIncrement"`
	RunID    string  `gorm:"column:run_id;index;not null"`
	Seq      int     `gorm:"column:seq;not null"`
	Phase    string  `gorm:"column:phase;index"`
	Agent    string  `gorm:"column:agent;not null"`
	Action   string  `gorm:"column:action;not null"`
	Start    float64 `gorm:"column:start;not null"`
	Duration float64 `gorm:"column:duration;not null"`
	Cost     float64 `gorm:"column:cost;not null;default:0"`
	Level    string  `gorm:"column:level;not null;default:'ACTION'"`
	Location string  `gorm:"column:location"`
}

func (ActionLogModel) TableName() string {
	return "action_logs"
}
