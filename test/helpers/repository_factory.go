package helpers

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/industry-planner/internal/adapters/persistence"
)

// TestRepositories holds all real repository instances for integration tests
type TestRepositories struct {
	DB           *gorm.DB
	LedgerRepo   *persistence.GormLedgerRepository
	ScheduleRepo *persistence.GormScheduleRepository
}

// NewTestRepositories creates all real repository instances using the shared test DB
func NewTestRepositories() *TestRepositories {
	db := SharedTestDB

	return &TestRepositories{
		DB:           db,
		LedgerRepo:   persistence.NewGormLedgerRepository(db),
		ScheduleRepo: persistence.NewGormScheduleRepository(db),
	}
}
