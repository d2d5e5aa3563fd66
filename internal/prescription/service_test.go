package prescription_test

import (
	"context"
	"testing"
	"time"

	"github.com/oapi-codegen/nullable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/family-health-api/internal/domain"
	"github.com/redmonkez12/family-health-api/internal/memstore"
	"github.com/redmonkez12/family-health-api/internal/ownership"
	"github.com/redmonkez12/family-health-api/internal/prescription"
)

type env struct {
	svc               *prescription.Service
	owner, stranger   int64
	member, strangers int64
}

func setup(t *testing.T) env {
	t.Helper()
	ctx := context.Background()
	db := memstore.New()

	owner, err := db.Users().Create(ctx, "owner@example.com", "hash")
	require.NoError(t, err)
	stranger, err := db.Users().Create(ctx, "stranger@example.com", "hash")
	require.NoError(t, err)

	member := domain.FamilyMember{UserID: owner.ID, Name: "Carol", Relation: "daughter", DateOfBirth: domain.Date{Year: 2012, Month: time.March, Day: 3}}
	require.NoError(t, db.FamilyMembers().Create(ctx, &member))
	theirs := domain.FamilyMember{UserID: stranger.ID, Name: "Eve", Relation: "self", DateOfBirth: domain.Date{Year: 1990, Month: time.May, Day: 5}}
	require.NoError(t, db.FamilyMembers().Create(ctx, &theirs))

	return env{
		svc:       prescription.NewService(db.Prescriptions(), ownership.NewResolver(db.FamilyMembers())),
		owner:     owner.ID,
		stranger:  stranger.ID,
		member:    member.ID,
		strangers: theirs.ID,
	}
}

func strptr(s string) *string { return &s }

func input() prescription.CreateInput {
	return prescription.CreateInput{
		MedicationName: "Amoxicillin",
		Dosage:         "250mg",
		Frequency:      "3x daily",
		StartDate:      "2024-04-01",
		EndDate:        strptr("2024-04-10"),
	}
}

func TestCreate(t *testing.T) {
	e := setup(t)

	rx, err := e.svc.Create(context.Background(), e.owner, e.member, input())
	require.NoError(t, err)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.April, Day: 1}, rx.StartDate)
	require.NotNil(t, rx.EndDate)
	assert.Equal(t, "2024-04-10", rx.EndDate.String())
	assert.Nil(t, rx.Notes)
}

func TestCreate_DateRules(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	in := input()
	in.StartDate = "2024-13-01"
	_, err := e.svc.Create(ctx, e.owner, e.member, in)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	in = input()
	in.EndDate = strptr("2024-03-31")
	_, err = e.svc.Create(ctx, e.owner, e.member, in)
	assert.ErrorIs(t, err, domain.ErrInvalidDateSpan)

	in = input()
	in.EndDate = strptr("2024-04-01")
	_, err = e.svc.Create(ctx, e.owner, e.member, in)
	assert.NoError(t, err, "same-day course")

	in = input()
	in.EndDate = nil
	rx, err := e.svc.Create(ctx, e.owner, e.member, in)
	require.NoError(t, err)
	assert.Nil(t, rx.EndDate)
}

func TestCreate_ForeignParent(t *testing.T) {
	e := setup(t)

	_, err := e.svc.Create(context.Background(), e.owner, e.strangers, input())
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
}

func TestUpdate_MergedSpan(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	rx, err := e.svc.Create(ctx, e.owner, e.member, input())
	require.NoError(t, err)

	_, err = e.svc.Update(ctx, e.owner, e.member, rx.ID, prescription.UpdateInput{
		StartDate: nullable.NewNullableWithValue("2024-05-01"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateSpan)

	updated, err := e.svc.Update(ctx, e.owner, e.member, rx.ID, prescription.UpdateInput{
		StartDate: nullable.NewNullableWithValue("2024-05-01"),
		EndDate:   nullable.NewNullNullable[string](),
		Notes:     nullable.NewNullableWithValue("with food"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", updated.StartDate.String())
	assert.Nil(t, updated.EndDate)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "with food", *updated.Notes)
	assert.Equal(t, rx.Dosage, updated.Dosage)

	got, err := e.svc.Get(ctx, e.owner, e.member, rx.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestDelete_MissingOrForeignIsNotFound(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	rx, err := e.svc.Create(ctx, e.owner, e.member, input())
	require.NoError(t, err)

	_, err = e.svc.Delete(ctx, e.owner, e.member, rx.ID+999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.svc.Delete(ctx, e.stranger, e.strangers, rx.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.svc.Delete(ctx, e.stranger, e.member, rx.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.svc.Get(ctx, e.owner, e.member, rx.ID)
	require.NoError(t, err, "failed deletes leave the row in place")

	deleted, err := e.svc.Delete(ctx, e.owner, e.member, rx.ID)
	require.NoError(t, err)
	assert.Equal(t, rx.ID, deleted.ID)

	_, err = e.svc.Delete(ctx, e.owner, e.member, rx.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
