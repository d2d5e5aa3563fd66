package familymember_test

import (
	"context"
	"testing"
	"time"

	"github.com/oapi-codegen/nullable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/family-health-api/internal/domain"
	"github.com/redmonkez12/family-health-api/internal/familymember"
	"github.com/redmonkez12/family-health-api/internal/memstore"
	"github.com/redmonkez12/family-health-api/internal/ownership"
)

func setup(t *testing.T) (*familymember.Service, *memstore.DB, int64, int64) {
	t.Helper()
	ctx := context.Background()
	db := memstore.New()

	owner, err := db.Users().Create(ctx, "owner@example.com", "hash")
	require.NoError(t, err)
	other, err := db.Users().Create(ctx, "other@example.com", "hash")
	require.NoError(t, err)

	svc := familymember.NewService(db.FamilyMembers(), ownership.NewResolver(db.FamilyMembers()))
	return svc, db, owner.ID, other.ID
}

func validInput() familymember.CreateInput {
	return familymember.CreateInput{Name: " Carol ", Relation: "daughter", DateOfBirth: "2012-03-03"}
}

func TestCreate(t *testing.T) {
	svc, _, owner, _ := setup(t)

	fm, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)
	assert.Positive(t, fm.ID)
	assert.Equal(t, owner, fm.UserID)
	assert.Equal(t, "Carol", fm.Name)
	assert.Equal(t, domain.Date{Year: 2012, Month: time.March, Day: 3}, fm.DateOfBirth)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, owner, _ := setup(t)
	ctx := context.Background()

	in := validInput()
	in.Name = "   "
	_, err := svc.Create(ctx, owner, in)
	assert.ErrorIs(t, err, domain.ErrRequiredField)

	in = validInput()
	in.DateOfBirth = "2012-02-30"
	_, err = svc.Create(ctx, owner, in)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	in = validInput()
	in.DateOfBirth = "yesterday"
	_, err = svc.Create(ctx, owner, in)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestList_OnlyOwn(t *testing.T) {
	svc, _, owner, other := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, other, validInput())
	require.NoError(t, err)

	mine, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, owner, mine[0].UserID)
}

func TestGet_ForeignIsNotFound(t *testing.T) {
	svc, _, owner, other := setup(t)
	ctx := context.Background()

	fm, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, other, fm.ID)
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
	_, err = svc.Get(ctx, owner, fm.ID+1000)
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
}

func TestUpdate_Partial(t *testing.T) {
	svc, _, owner, _ := setup(t)
	ctx := context.Background()

	fm, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, fm.ID, familymember.UpdateInput{
		Relation: nullable.NewNullableWithValue("granddaughter"),
	})
	require.NoError(t, err)
	assert.Equal(t, "granddaughter", updated.Relation)
	assert.Equal(t, fm.Name, updated.Name)
	assert.Equal(t, fm.DateOfBirth, updated.DateOfBirth)
	assert.Equal(t, owner, updated.UserID)

	_, err = svc.Update(ctx, owner, fm.ID, familymember.UpdateInput{})
	assert.ErrorIs(t, err, domain.ErrNoUpdateData)

	_, err = svc.Update(ctx, owner, fm.ID, familymember.UpdateInput{Name: nullable.NewNullNullable[string]()})
	assert.ErrorIs(t, err, domain.ErrRequiredField)

	_, err = svc.Update(ctx, owner, fm.ID, familymember.UpdateInput{DateOfBirth: nullable.NewNullableWithValue("13/13/2013")})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestUpdate_ForeignIsNotFound(t *testing.T) {
	svc, _, owner, other := setup(t)
	ctx := context.Background()

	fm, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, other, fm.ID, familymember.UpdateInput{Name: nullable.NewNullableWithValue("Mallory")})
	assert.ErrorIs(t, err, domain.ErrParentNotFound)

	got, err := svc.Get(ctx, owner, fm.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.Name)
}

func TestDelete_Cascades(t *testing.T) {
	svc, db, owner, other := setup(t)
	ctx := context.Background()

	fm, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)
	rec := domain.MedicalRecord{FamilyMemberID: fm.ID, RecordType: "visit", Description: "checkup", Date: time.Now().UTC()}
	require.NoError(t, db.MedicalRecords().Create(ctx, &rec))

	_, err = svc.Delete(ctx, other, fm.ID)
	assert.ErrorIs(t, err, domain.ErrParentNotFound)

	deleted, err := svc.Delete(ctx, owner, fm.ID)
	require.NoError(t, err)
	assert.Equal(t, fm.ID, deleted.ID)

	_, found, err := db.MedicalRecords().FindInFamily(ctx, fm.ID, rec.ID)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = svc.Delete(ctx, owner, fm.ID)
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
}
