package medicalrecord

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/family-health-api/internal/database"
	"github.com/redmonkez12/family-health-api/internal/domain"
)

type Repository = database.ScopedRepository[database.MedicalRecord, domain.MedicalRecord]

// NewRepository stores medical records in postgres.
func NewRepository(db *bun.DB) *Repository {
	return database.NewScopedRepository(db, "medical record",
		[]string{"record_type", "description", "date", "attachments"},
		toRow, toDomain,
		func(row *database.MedicalRecord, now time.Time) { row.UpdatedAt = now },
	)
}

func toRow(rec *domain.MedicalRecord) *database.MedicalRecord {
	return &database.MedicalRecord{
		ID:             rec.ID,
		FamilyMemberID: rec.FamilyMemberID,
		RecordType:     rec.RecordType,
		Description:    rec.Description,
		Date:           rec.Date,
		Attachments:    rec.Attachments,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func toDomain(row *database.MedicalRecord) domain.MedicalRecord {
	return domain.MedicalRecord{
		ID:             row.ID,
		FamilyMemberID: row.FamilyMemberID,
		RecordType:     row.RecordType,
		Description:    row.Description,
		Date:           row.Date.UTC(),
		Attachments:    row.Attachments,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
