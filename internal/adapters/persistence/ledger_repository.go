package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
)

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GORM ledger repository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Load retrieves every balance of a ledger
func (r *GormLedgerRepository) Load(ctx context.Context, ledger string) ([]resources.Resource, error) {
	var header LedgerModel
	result := r.db.WithContext(ctx).Where("name = ?", ledger).First(&header)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ledger not found: %s", ledger)
		}
		return nil, fmt.Errorf("failed to find ledger: %w", result.Error)
	}

	var models []ResourceBalanceModel
	result = r.db.WithContext(ctx).
		Where("ledger = ?", ledger).
		Order("location_id, type_id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load balances: %w", result.Error)
	}

	balances := make([]resources.Resource, 0, len(models))
	for _, m := range models {
		balances = append(balances, resources.Resource{
			Type:     production.NewResourceType(m.TypeID, m.TypeName),
			Location: production.NewProductionLocation(m.LocationID, m.LocationName),
			Amount:   m.Amount,
		})
	}
	return balances, nil
}

// Save replaces the balances of a ledger, creating the ledger if needed
func (r *GormLedgerRepository) Save(ctx context.Context, ledger string, balances []resources.Resource) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header := LedgerModel{Name: ledger, UpdatedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).Create(&header).Error; err != nil {
			return fmt.Errorf("failed to upsert ledger: %w", err)
		}

		if err := tx.Where("ledger = ?", ledger).Delete(&ResourceBalanceModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear balances: %w", err)
		}
		if len(balances) == 0 {
			return nil
		}

		// Duplicate cells in the input collapse onto the last amount
		type cellKey struct{ typeID, locationID int64 }
		index := make(map[cellKey]int, len(balances))
		models := make([]ResourceBalanceModel, 0, len(balances))
		for _, b := range balances {
			model := ResourceBalanceModel{
				Ledger:       ledger,
				TypeID:       b.Type.ID,
				LocationID:   b.Location.ID,
				TypeName:     b.Type.Name,
				LocationName: b.Location.Name,
				Amount:       b.Amount,
			}
			k := cellKey{b.Type.ID, b.Location.ID}
			if i, seen := index[k]; seen {
				models[i] = model
				continue
			}
			index[k] = len(models)
			models = append(models, model)
		}
		if err := tx.CreateInBatches(models, 200).Error; err != nil {
			return fmt.Errorf("failed to save balances: %w", err)
		}
		return nil
	})
}

// List returns the stored ledger names in alphabetical order
func (r *GormLedgerRepository) List(ctx context.Context) ([]string, error) {
	var names []string
	result := r.db.WithContext(ctx).Model(&LedgerModel{}).Order("name").Pluck("name", &names)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", result.Error)
	}
	return names, nil
}

var _ resources.LedgerRepository = (*GormLedgerRepository)(nil)
