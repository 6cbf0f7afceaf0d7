package persistence

import (
	"time"
)

// LedgerModel represents the ledgers table
type LedgerModel struct {
	Name      string    `gorm:"column:name;primaryKey"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (LedgerModel) TableName() string {
	return "ledgers"
}

// ResourceBalanceModel represents the resource_balances table.
// One row per (ledger, resource type, location); names are denormalized for display.
type ResourceBalanceModel struct {
	Ledger       string `gorm:"column:ledger;primaryKey"`
	TypeID       int64  `gorm:"column:type_id;primaryKey;autoIncrement:false"`
	LocationID   int64  `gorm:"column:location_id;primaryKey;autoIncrement:false"`
	TypeName     string `gorm:"column:type_name"`
	LocationName string `gorm:"column:location_name"`
	Amount       int64  `gorm:"column:amount;not null;default:0"`
}

func (ResourceBalanceModel) TableName() string {
	return "resource_balances"
}

// ScheduleModel represents the schedules table
type ScheduleModel struct {
	ID             string              `gorm:"column:id;primaryKey"`
	PlanName       string              `gorm:"column:plan_name;not null;index"`
	ComputedAt     time.Time           `gorm:"column:computed_at;not null"`
	StartAt        time.Time           `gorm:"column:start_at;not null"`
	EndAt          time.Time           `gorm:"column:end_at;not null"`
	HorizonSeconds int64               `gorm:"column:horizon_seconds;not null"`
	TotalCost      string              `gorm:"column:total_cost;type:text"` // decimal as text
	Slots          string              `gorm:"column:slots;type:text"`      // JSON array as text
	Jobs           []ScheduledJobModel `gorm:"foreignKey:ScheduleID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ScheduleModel) TableName() string {
	return "schedules"
}

// ScheduledJobModel represents the scheduled_jobs table
type ScheduledJobModel struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ScheduleID    string    `gorm:"column:schedule_id;not null;index"`
	JobID         int       `gorm:"column:job_id;not null"`
	Name          string    `gorm:"column:name;not null"`
	Template      string    `gorm:"column:template;not null"`
	Activity      string    `gorm:"column:activity"`
	Mode          string    `gorm:"column:mode"`
	Slot          string    `gorm:"column:slot"`
	Runs          int       `gorm:"column:runs"`
	StartAt       time.Time `gorm:"column:start_at"`
	EndAt         time.Time `gorm:"column:end_at"`
	Cost          string    `gorm:"column:cost;type:text"`          // decimal as text
	Prerequisites string    `gorm:"column:prerequisites;type:text"` // JSON array as text
}

func (ScheduledJobModel) TableName() string {
	return "scheduled_jobs"
}

// AllModels lists every model for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&LedgerModel{},
		&ResourceBalanceModel{},
		&ScheduleModel{},
		&ScheduledJobModel{},
	}
}
