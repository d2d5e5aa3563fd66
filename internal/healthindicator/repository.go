package healthindicator

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/family-health-api/internal/database"
	"github.com/redmonkez12/family-health-api/internal/domain"
)

type Repository = database.ScopedRepository[database.HealthIndicator, domain.HealthIndicator]

// NewRepository stores health indicators in postgres.
func NewRepository(db *bun.DB) *Repository {
	return database.NewScopedRepository(db, "health indicator",
		[]string{"indicator_type", "value", "unit", "date", "notes"},
		toRow, toDomain,
		func(row *database.HealthIndicator, now time.Time) { row.UpdatedAt = now },
	)
}

func toRow(hi *domain.HealthIndicator) *database.HealthIndicator {
	return &database.HealthIndicator{
		ID:             hi.ID,
		FamilyMemberID: hi.FamilyMemberID,
		IndicatorType:  hi.IndicatorType,
		Value:          hi.Value,
		Unit:           hi.Unit,
		Date:           hi.Date,
		Notes:          hi.Notes,
		CreatedAt:      hi.CreatedAt,
		UpdatedAt:      hi.UpdatedAt,
	}
}

func toDomain(row *database.HealthIndicator) domain.HealthIndicator {
	return domain.HealthIndicator{
		ID:             row.ID,
		FamilyMemberID: row.FamilyMemberID,
		IndicatorType:  row.IndicatorType,
		Value:          row.Value,
		Unit:           row.Unit,
		Date:           row.Date.UTC(),
		Notes:          row.Notes,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
