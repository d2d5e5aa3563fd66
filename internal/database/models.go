package database

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/family-health-api/internal/domain"
)

// Row types mirror the tables created by the migrations. Repositories map
// them to and from the domain entities.

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

type FamilyMember struct {
	bun.BaseModel `bun:"table:family_members,alias:fm"`

	ID          int64       `bun:"id,pk,autoincrement"`
	UserID      int64       `bun:"user_id,notnull"`
	Name        string      `bun:"name,notnull"`
	Relation    string      `bun:"relation,notnull"`
	DateOfBirth domain.Date `bun:"date_of_birth,type:date,notnull"`
	CreatedAt   time.Time   `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time   `bun:"updated_at,notnull,default:current_timestamp"`
}

type MedicalRecord struct {
	bun.BaseModel `bun:"table:medical_records,alias:mr"`

	ID             int64     `bun:"id,pk,autoincrement"`
	FamilyMemberID int64     `bun:"family_member_id,notnull"`
	RecordType     string    `bun:"record_type,notnull"`
	Description    string    `bun:"description,notnull"`
	Date           time.Time `bun:"date,notnull"`
	Attachments    *string   `bun:"attachments"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

type Prescription struct {
	bun.BaseModel `bun:"table:prescriptions,alias:rx"`

	ID             int64        `bun:"id,pk,autoincrement"`
	FamilyMemberID int64        `bun:"family_member_id,notnull"`
	MedicationName string       `bun:"medication_name,notnull"`
	Dosage         string       `bun:"dosage,notnull"`
	Frequency      string       `bun:"frequency,notnull"`
	StartDate      domain.Date  `bun:"start_date,type:date,notnull"`
	EndDate        *domain.Date `bun:"end_date,type:date"`
	Notes          *string      `bun:"notes"`
	CreatedAt      time.Time    `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time    `bun:"updated_at,notnull,default:current_timestamp"`
}

type HealthIndicator struct {
	bun.BaseModel `bun:"table:health_indicators,alias:hi"`

	ID             int64     `bun:"id,pk,autoincrement"`
	FamilyMemberID int64     `bun:"family_member_id,notnull"`
	IndicatorType  string    `bun:"indicator_type,notnull"`
	Value          string    `bun:"value,notnull"`
	Unit           *string   `bun:"unit"`
	Date           time.Time `bun:"date,notnull"`
	Notes          *string   `bun:"notes"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
