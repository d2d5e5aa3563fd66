package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/family-health-api/internal/clock"
	"github.com/redmonkez12/family-health-api/internal/domain"
	"github.com/redmonkez12/family-health-api/internal/memstore"
)

func TestUsers_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	users := memstore.New().Users()

	created, err := users.Create(ctx, "kim@example.com", "hash")
	require.NoError(t, err)

	_, err = users.Create(ctx, "KIM@example.com", "hash")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	got, ok, err := users.GetByEmail(ctx, "Kim@Example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, got.ID)
}

func TestFamilyMembers_FindOwned(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	owner, err := db.Users().Create(ctx, "a@example.com", "h")
	require.NoError(t, err)
	other, err := db.Users().Create(ctx, "b@example.com", "h")
	require.NoError(t, err)

	fm := domain.FamilyMember{UserID: owner.ID, Name: "Lee", Relation: "son"}
	require.NoError(t, db.FamilyMembers().Create(ctx, &fm))

	_, ok, err := db.FamilyMembers().FindOwned(ctx, owner.ID, fm.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = db.FamilyMembers().FindOwned(ctx, other.ID, fm.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateKeepsOwnerAndCreation(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC))
	db := memstore.NewWithClock(clk)
	owner, err := db.Users().Create(ctx, "a@example.com", "h")
	require.NoError(t, err)

	fm := domain.FamilyMember{UserID: owner.ID, Name: "Lee", Relation: "son"}
	require.NoError(t, db.FamilyMembers().Create(ctx, &fm))
	created := fm.CreatedAt

	clk.Advance(time.Minute)
	changed := fm
	changed.UserID = 999
	changed.Name = "Leo"
	require.NoError(t, db.FamilyMembers().Update(ctx, &changed))

	assert.Equal(t, owner.ID, changed.UserID)
	assert.True(t, changed.CreatedAt.Equal(created))
	assert.True(t, changed.UpdatedAt.After(created))

	missing := domain.FamilyMember{ID: 404}
	assert.ErrorIs(t, db.FamilyMembers().Update(ctx, &missing), domain.ErrNotFound)
}

func TestScoped_FamilyBoundaries(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	owner, err := db.Users().Create(ctx, "a@example.com", "h")
	require.NoError(t, err)
	first := domain.FamilyMember{UserID: owner.ID, Name: "One", Relation: "son"}
	second := domain.FamilyMember{UserID: owner.ID, Name: "Two", Relation: "son"}
	require.NoError(t, db.FamilyMembers().Create(ctx, &first))
	require.NoError(t, db.FamilyMembers().Create(ctx, &second))

	orphan := domain.HealthIndicator{FamilyMemberID: 777, IndicatorType: "weight", Value: "1"}
	assert.ErrorIs(t, db.HealthIndicators().Create(ctx, &orphan), domain.ErrParentNotFound)

	hi := domain.HealthIndicator{FamilyMemberID: first.ID, IndicatorType: "weight", Value: "20"}
	require.NoError(t, db.HealthIndicators().Create(ctx, &hi))

	_, ok, err := db.HealthIndicators().FindInFamily(ctx, second.ID, hi.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := db.HealthIndicators().ListByFamilyMember(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestFamilyMemberDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	owner, err := db.Users().Create(ctx, "a@example.com", "h")
	require.NoError(t, err)
	keep := domain.FamilyMember{UserID: owner.ID, Name: "Keep", Relation: "son"}
	drop := domain.FamilyMember{UserID: owner.ID, Name: "Drop", Relation: "son"}
	require.NoError(t, db.FamilyMembers().Create(ctx, &keep))
	require.NoError(t, db.FamilyMembers().Create(ctx, &drop))

	for _, id := range []int64{keep.ID, drop.ID} {
		require.NoError(t, db.MedicalRecords().Create(ctx, &domain.MedicalRecord{FamilyMemberID: id, RecordType: "visit", Description: "d"}))
		require.NoError(t, db.Prescriptions().Create(ctx, &domain.Prescription{FamilyMemberID: id, MedicationName: "m", Dosage: "1", Frequency: "daily"}))
	}

	require.NoError(t, db.FamilyMembers().Delete(ctx, drop.ID))
	assert.ErrorIs(t, db.FamilyMembers().Delete(ctx, drop.ID), domain.ErrNotFound)

	records, err := db.MedicalRecords().ListByFamilyMember(ctx, drop.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
	rx, err := db.Prescriptions().ListByFamilyMember(ctx, drop.ID)
	require.NoError(t, err)
	assert.Empty(t, rx)

	records, err = db.MedicalRecords().ListByFamilyMember(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
