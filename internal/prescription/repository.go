package prescription

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/family-health-api/internal/database"
	"github.com/redmonkez12/family-health-api/internal/domain"
)

type Repository = database.ScopedRepository[database.Prescription, domain.Prescription]

// NewRepository stores prescriptions in postgres.
func NewRepository(db *bun.DB) *Repository {
	return database.NewScopedRepository(db, "prescription",
		[]string{"medication_name", "dosage", "frequency", "start_date", "end_date", "notes"},
		toRow, toDomain,
		func(row *database.Prescription, now time.Time) { row.UpdatedAt = now },
	)
}

func toRow(rx *domain.Prescription) *database.Prescription {
	return &database.Prescription{
		ID:             rx.ID,
		FamilyMemberID: rx.FamilyMemberID,
		MedicationName: rx.MedicationName,
		Dosage:         rx.Dosage,
		Frequency:      rx.Frequency,
		StartDate:      rx.StartDate,
		EndDate:        rx.EndDate,
		Notes:          rx.Notes,
		CreatedAt:      rx.CreatedAt,
		UpdatedAt:      rx.UpdatedAt,
	}
}

func toDomain(row *database.Prescription) domain.Prescription {
	return domain.Prescription{
		ID:             row.ID,
		FamilyMemberID: row.FamilyMemberID,
		MedicationName: row.MedicationName,
		Dosage:         row.Dosage,
		Frequency:      row.Frequency,
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
		Notes:          row.Notes,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
