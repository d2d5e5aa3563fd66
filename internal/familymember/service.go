// Package familymember manages the people a user keeps health records for.
package familymember

import (
	"context"
	"errors"
	"fmt"

	"github.com/oapi-codegen/nullable"

	"github.com/redmonkez12/family-health-api/internal/domain"
	"github.com/redmonkez12/family-health-api/internal/ownership"
)

// Store persists family members. FindOwned doubles as the resolver's finder.
type Store interface {
	ownership.FamilyMemberFinder
	Create(ctx context.Context, fm *domain.FamilyMember) error
	ListByUser(ctx context.Context, userID int64) ([]domain.FamilyMember, error)
	Update(ctx context.Context, fm *domain.FamilyMember) error
	Delete(ctx context.Context, id int64) error
}

type CreateInput struct {
	Name        string `json:"name"`
	Relation    string `json:"relation"`
	DateOfBirth string `json:"dateOfBirth"`
}

// UpdateInput distinguishes absent fields from explicit nulls.
type UpdateInput struct {
	Name        nullable.Nullable[string] `json:"name"`
	Relation    nullable.Nullable[string] `json:"relation"`
	DateOfBirth nullable.Nullable[string] `json:"dateOfBirth"`
}

type Service struct {
	store    Store
	resolver *ownership.Resolver
}

func NewService(store Store, resolver *ownership.Resolver) *Service {
	return &Service{store: store, resolver: resolver}
}

func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (domain.FamilyMember, error) {
	name, err := domain.RequiredText("name", in.Name)
	if err != nil {
		return domain.FamilyMember{}, err
	}
	relation, err := domain.RequiredText("relation", in.Relation)
	if err != nil {
		return domain.FamilyMember{}, err
	}
	dob, err := domain.RequiredDate("dateOfBirth", in.DateOfBirth)
	if err != nil {
		return domain.FamilyMember{}, err
	}

	fm := domain.FamilyMember{UserID: userID, Name: name, Relation: relation, DateOfBirth: dob}
	if err := s.store.Create(ctx, &fm); err != nil {
		return domain.FamilyMember{}, fmt.Errorf("failed to create family member: %w", err)
	}
	return fm, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]domain.FamilyMember, error) {
	members, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}
	return members, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (domain.FamilyMember, error) {
	fm, found, err := s.resolver.FamilyMember(ctx, userID, id)
	if err != nil {
		return domain.FamilyMember{}, fmt.Errorf("failed to resolve family member: %w", err)
	}
	if !found {
		return domain.FamilyMember{}, domain.ErrParentNotFound
	}
	return fm, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, in UpdateInput) (domain.FamilyMember, error) {
	fm, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.FamilyMember{}, err
	}

	err = domain.ApplyPatches(
		func() (bool, error) { return domain.PatchText("name", in.Name, &fm.Name) },
		func() (bool, error) { return domain.PatchText("relation", in.Relation, &fm.Relation) },
		func() (bool, error) { return domain.PatchDate("dateOfBirth", in.DateOfBirth, &fm.DateOfBirth) },
	)
	if err != nil {
		return domain.FamilyMember{}, err
	}

	if err := s.store.Update(ctx, &fm); err != nil {
		return domain.FamilyMember{}, storeError("update", err)
	}
	return fm, nil
}

// Delete removes the family member together with everything recorded for it.
func (s *Service) Delete(ctx context.Context, userID, id int64) (domain.FamilyMember, error) {
	fm, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.FamilyMember{}, err
	}
	if err := s.store.Delete(ctx, fm.ID); err != nil {
		return domain.FamilyMember{}, storeError("delete", err)
	}
	return fm, nil
}

// storeError keeps a concurrent removal reported as not found.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrParentNotFound
	}
	return fmt.Errorf("failed to %s family member: %w", op, err)
}
