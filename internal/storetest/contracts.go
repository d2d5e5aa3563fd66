// Package storetest holds behavioural contracts every store backend must
// satisfy. The in-memory store runs them always; the Postgres repositories
// run them when a test database is configured.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/family-health-api/internal/auth"
	"github.com/redmonkez12/family-health-api/internal/domain"
	"github.com/redmonkez12/family-health-api/internal/familymember"
	"github.com/redmonkez12/family-health-api/internal/healthindicator"
	"github.com/redmonkez12/family-health-api/internal/medicalrecord"
	"github.com/redmonkez12/family-health-api/internal/prescription"
)

// Stores is one complete backend.
type Stores struct {
	Users            auth.UserStore
	FamilyMembers    familymember.Store
	MedicalRecords   medicalrecord.Store
	Prescriptions    prescription.Store
	HealthIndicators healthindicator.Store
}

// Factory returns empty stores for one subtest.
type Factory func(t *testing.T) Stores

func Run(t *testing.T, newStores Factory) {
	t.Run("users", func(t *testing.T) { runUsers(t, newStores(t)) })
	t.Run("family members", func(t *testing.T) { runFamilyMembers(t, newStores(t)) })
	t.Run("scoped rows", func(t *testing.T) { runScoped(t, newStores(t)) })
	t.Run("cascade", func(t *testing.T) { runCascade(t, newStores(t)) })
}

func runUsers(t *testing.T, s Stores) {
	ctx := context.Background()

	created, err := s.Users.Create(ctx, "Pat@Example.com", "hash-1")
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, "pat@example.com", created.Email)

	_, err = s.Users.Create(ctx, "pat@example.com", "hash-2")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	got, ok, err := s.Users.GetByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "hash-1", got.PasswordHash)

	_, ok, err = s.Users.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err = s.Users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.Email, got.Email)
}

func newUser(t *testing.T, s Stores, email string) domain.User {
	t.Helper()
	u, err := s.Users.Create(context.Background(), email, "hash")
	require.NoError(t, err)
	return u
}

func newMember(t *testing.T, s Stores, userID int64, name string) domain.FamilyMember {
	t.Helper()
	fm := domain.FamilyMember{
		UserID:      userID,
		Name:        name,
		Relation:    "child",
		DateOfBirth: domain.Date{Year: 2014, Month: time.August, Day: 9},
	}
	require.NoError(t, s.FamilyMembers.Create(context.Background(), &fm))
	return fm
}

func runFamilyMembers(t *testing.T, s Stores) {
	ctx := context.Background()
	owner := newUser(t, s, "owner@example.com")
	other := newUser(t, s, "other@example.com")

	fm := newMember(t, s, owner.ID, "Robin")
	assert.Positive(t, fm.ID)
	assert.False(t, fm.CreatedAt.IsZero())

	got, ok, err := s.FamilyMembers.FindOwned(ctx, owner.ID, fm.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fm.DateOfBirth, got.DateOfBirth)

	_, ok, err = s.FamilyMembers.FindOwned(ctx, other.ID, fm.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := s.FamilyMembers.ListByUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	got.Name = "Robyn"
	require.NoError(t, s.FamilyMembers.Update(ctx, &got))
	assert.Equal(t, "Robyn", got.Name)
	assert.Equal(t, owner.ID, got.UserID)

	ghost := domain.FamilyMember{ID: fm.ID + 1000, UserID: owner.ID, Name: "x", Relation: "x"}
	assert.ErrorIs(t, s.FamilyMembers.Update(ctx, &ghost), domain.ErrNotFound)
	assert.ErrorIs(t, s.FamilyMembers.Delete(ctx, ghost.ID), domain.ErrNotFound)
}

func runScoped(t *testing.T, s Stores) {
	ctx := context.Background()
	owner := newUser(t, s, "scoped@example.com")
	first := newMember(t, s, owner.ID, "First")
	second := newMember(t, s, owner.ID, "Second")

	orphan := domain.Prescription{FamilyMemberID: second.ID + 1000, MedicationName: "m", Dosage: "d", Frequency: "f",
		StartDate: domain.Date{Year: 2024, Month: time.January, Day: 1}}
	assert.ErrorIs(t, s.Prescriptions.Create(ctx, &orphan), domain.ErrParentNotFound)

	end := domain.Date{Year: 2024, Month: time.February, Day: 1}
	rx := domain.Prescription{
		FamilyMemberID: first.ID,
		MedicationName: "Ibuprofen",
		Dosage:         "200mg",
		Frequency:      "as needed",
		StartDate:      domain.Date{Year: 2024, Month: time.January, Day: 15},
		EndDate:        &end,
	}
	require.NoError(t, s.Prescriptions.Create(ctx, &rx))
	assert.Positive(t, rx.ID)

	got, ok, err := s.Prescriptions.FindInFamily(ctx, first.ID, rx.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, end, *got.EndDate)
	assert.Nil(t, got.Notes)

	_, ok, err = s.Prescriptions.FindInFamily(ctx, second.ID, rx.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got.EndDate = nil
	require.NoError(t, s.Prescriptions.Update(ctx, &got))
	got, _, err = s.Prescriptions.FindInFamily(ctx, first.ID, rx.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EndDate)

	taken := time.Date(2024, time.May, 2, 7, 45, 0, 0, time.UTC)
	hi := domain.HealthIndicator{FamilyMemberID: first.ID, IndicatorType: "temperature", Value: "38.2", Date: taken}
	require.NoError(t, s.HealthIndicators.Create(ctx, &hi))
	list, err := s.HealthIndicators.ListByFamilyMember(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Date.Equal(taken))

	require.NoError(t, s.HealthIndicators.Delete(ctx, hi.ID))
	assert.ErrorIs(t, s.HealthIndicators.Delete(ctx, hi.ID), domain.ErrNotFound)
	assert.ErrorIs(t, s.HealthIndicators.Update(ctx, &hi), domain.ErrNotFound)
}

func runCascade(t *testing.T, s Stores) {
	ctx := context.Background()
	owner := newUser(t, s, "cascade@example.com")
	keep := newMember(t, s, owner.ID, "Keep")
	drop := newMember(t, s, owner.ID, "Drop")

	for _, fm := range []domain.FamilyMember{keep, drop} {
		rec := domain.MedicalRecord{FamilyMemberID: fm.ID, RecordType: "visit", Description: "checkup",
			Date: time.Date(2024, time.April, 4, 10, 0, 0, 0, time.UTC)}
		require.NoError(t, s.MedicalRecords.Create(ctx, &rec))
	}

	require.NoError(t, s.FamilyMembers.Delete(ctx, drop.ID))

	gone, err := s.MedicalRecords.ListByFamilyMember(ctx, drop.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := s.MedicalRecords.ListByFamilyMember(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
