// Package ownership resolves the User → FamilyMember → sub-resource chain.
//
// Every lookup answers with (value, found, err). found is false both when the
// row does not exist and when it belongs to someone else, so callers cannot
// tell the two apart. err is reserved for store failures.
package ownership

import (
	"context"
	"fmt"

	"github.com/redmonkez12/family-health-api/internal/domain"
)

// FamilyMemberFinder looks a family member up by (id, owner) in one query.
type FamilyMemberFinder interface {
	FindOwned(ctx context.Context, userID, familyMemberID int64) (domain.FamilyMember, bool, error)
}

// ScopedFinder looks a sub-resource up by (id, familyMemberID) in one query.
type ScopedFinder[T any] interface {
	FindInFamily(ctx context.Context, familyMemberID, id int64) (T, bool, error)
}

type Resolver struct {
	members FamilyMemberFinder
}

func NewResolver(members FamilyMemberFinder) *Resolver {
	return &Resolver{members: members}
}

// FamilyMember verifies that userID owns familyMemberID.
func (r *Resolver) FamilyMember(ctx context.Context, userID, familyMemberID int64) (domain.FamilyMember, bool, error) {
	if userID <= 0 || familyMemberID <= 0 {
		return domain.FamilyMember{}, false, nil
	}
	fm, ok, err := r.members.FindOwned(ctx, userID, familyMemberID)
	if err != nil {
		return domain.FamilyMember{}, false, fmt.Errorf("resolve family member: %w", err)
	}
	return fm, ok, nil
}

// SubResource verifies the full chain: userID owns familyMemberID, and id is
// filed under familyMemberID. A row filed under another family member is
// reported exactly like a missing one.
func SubResource[T any](ctx context.Context, r *Resolver, finder ScopedFinder[T], userID, familyMemberID, id int64) (T, bool, error) {
	var zero T
	if _, ok, err := r.FamilyMember(ctx, userID, familyMemberID); err != nil || !ok {
		return zero, false, err
	}
	if id <= 0 {
		return zero, false, nil
	}
	v, ok, err := finder.FindInFamily(ctx, familyMemberID, id)
	if err != nil {
		return zero, false, fmt.Errorf("resolve sub-resource: %w", err)
	}
	return v, ok, nil
}
