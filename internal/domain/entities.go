// Package domain holds the entities of the health-records model and the
// field rules shared by the resource services.
package domain

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the only user shape returned to callers.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

type FamilyMember struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Relation    string    `json:"relation"`
	DateOfBirth Date      `json:"dateOfBirth"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MedicalRecord struct {
	ID             int64     `json:"id"`
	FamilyMemberID int64     `json:"familyMemberId"`
	RecordType     string    `json:"recordType"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Attachments    *string   `json:"attachments"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Prescription struct {
	ID             int64     `json:"id"`
	FamilyMemberID int64     `json:"familyMemberId"`
	MedicationName string    `json:"medicationName"`
	Dosage         string    `json:"dosage"`
	Frequency      string    `json:"frequency"`
	StartDate      Date      `json:"startDate"`
	EndDate        *Date     `json:"endDate"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type HealthIndicator struct {
	ID             int64     `json:"id"`
	FamilyMemberID int64     `json:"familyMemberId"`
	IndicatorType  string    `json:"indicatorType"`
	Value          string    `json:"value"`
	Unit           *string   `json:"unit"`
	Date           time.Time `json:"date"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
