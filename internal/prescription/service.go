// Package prescription manages medication courses prescribed to a family
// member.
package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/oapi-codegen/nullable"

	"github.com/redmonkez12/family-health-api/internal/domain"
	"github.com/redmonkez12/family-health-api/internal/ownership"
)

type Store interface {
	ownership.ScopedFinder[domain.Prescription]
	Create(ctx context.Context, rx *domain.Prescription) error
	ListByFamilyMember(ctx context.Context, familyMemberID int64) ([]domain.Prescription, error)
	Update(ctx context.Context, rx *domain.Prescription) error
	Delete(ctx context.Context, id int64) error
}

type CreateInput struct {
	MedicationName string  `json:"medicationName"`
	Dosage         string  `json:"dosage"`
	Frequency      string  `json:"frequency"`
	StartDate      string  `json:"startDate"`
	EndDate        *string `json:"endDate"`
	Notes          *string `json:"notes"`
}

type UpdateInput struct {
	MedicationName nullable.Nullable[string] `json:"medicationName"`
	Dosage         nullable.Nullable[string] `json:"dosage"`
	Frequency      nullable.Nullable[string] `json:"frequency"`
	StartDate      nullable.Nullable[string] `json:"startDate"`
	EndDate        nullable.Nullable[string] `json:"endDate"`
	Notes          nullable.Nullable[string] `json:"notes"`
}

type Service struct {
	store    Store
	resolver *ownership.Resolver
}

func NewService(store Store, resolver *ownership.Resolver) *Service {
	return &Service{store: store, resolver: resolver}
}

func (s *Service) Create(ctx context.Context, userID, familyMemberID int64, in CreateInput) (domain.Prescription, error) {
	if err := s.requireFamilyMember(ctx, userID, familyMemberID); err != nil {
		return domain.Prescription{}, err
	}

	rx := domain.Prescription{FamilyMemberID: familyMemberID, Notes: domain.OptionalText(in.Notes)}
	var err error
	if rx.MedicationName, err = domain.RequiredText("medicationName", in.MedicationName); err != nil {
		return domain.Prescription{}, err
	}
	if rx.Dosage, err = domain.RequiredText("dosage", in.Dosage); err != nil {
		return domain.Prescription{}, err
	}
	if rx.Frequency, err = domain.RequiredText("frequency", in.Frequency); err != nil {
		return domain.Prescription{}, err
	}
	if rx.StartDate, err = domain.RequiredDate("startDate", in.StartDate); err != nil {
		return domain.Prescription{}, err
	}
	if rx.EndDate, err = domain.OptionalDate("endDate", in.EndDate); err != nil {
		return domain.Prescription{}, err
	}
	if err := checkSpan(rx); err != nil {
		return domain.Prescription{}, err
	}

	if err := s.store.Create(ctx, &rx); err != nil {
		if errors.Is(err, domain.ErrParentNotFound) {
			return domain.Prescription{}, domain.ErrParentNotFound
		}
		return domain.Prescription{}, fmt.Errorf("failed to create prescription: %w", err)
	}
	return rx, nil
}

func (s *Service) List(ctx context.Context, userID, familyMemberID int64) ([]domain.Prescription, error) {
	if err := s.requireFamilyMember(ctx, userID, familyMemberID); err != nil {
		return nil, err
	}
	list, err := s.store.ListByFamilyMember(ctx, familyMemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, userID, familyMemberID, id int64) (domain.Prescription, error) {
	rx, found, err := ownership.SubResource[domain.Prescription](ctx, s.resolver, s.store, userID, familyMemberID, id)
	if err != nil {
		return domain.Prescription{}, fmt.Errorf("failed to resolve prescription: %w", err)
	}
	if !found {
		return domain.Prescription{}, domain.ErrNotFound.WithDetail("prescription")
	}
	return rx, nil
}

// Update applies the provided fields and checks the date span of the merged
// prescription.
func (s *Service) Update(ctx context.Context, userID, familyMemberID, id int64, in UpdateInput) (domain.Prescription, error) {
	rx, err := s.Get(ctx, userID, familyMemberID, id)
	if err != nil {
		return domain.Prescription{}, err
	}

	err = domain.ApplyPatches(
		func() (bool, error) { return domain.PatchText("medicationName", in.MedicationName, &rx.MedicationName) },
		func() (bool, error) { return domain.PatchText("dosage", in.Dosage, &rx.Dosage) },
		func() (bool, error) { return domain.PatchText("frequency", in.Frequency, &rx.Frequency) },
		func() (bool, error) { return domain.PatchDate("startDate", in.StartDate, &rx.StartDate) },
		func() (bool, error) { return domain.PatchOptionalDate("endDate", in.EndDate, &rx.EndDate) },
		func() (bool, error) { return domain.PatchOptionalText(in.Notes, &rx.Notes), nil },
	)
	if err != nil {
		return domain.Prescription{}, err
	}
	if err := checkSpan(rx); err != nil {
		return domain.Prescription{}, err
	}

	if err := s.store.Update(ctx, &rx); err != nil {
		return domain.Prescription{}, storeError("update", err)
	}
	return rx, nil
}

func (s *Service) Delete(ctx context.Context, userID, familyMemberID, id int64) (domain.Prescription, error) {
	rx, err := s.Get(ctx, userID, familyMemberID, id)
	if err != nil {
		return domain.Prescription{}, err
	}
	if err := s.store.Delete(ctx, rx.ID); err != nil {
		return domain.Prescription{}, storeError("delete", err)
	}
	return rx, nil
}

func (s *Service) requireFamilyMember(ctx context.Context, userID, familyMemberID int64) error {
	_, found, err := s.resolver.FamilyMember(ctx, userID, familyMemberID)
	if err != nil {
		return fmt.Errorf("failed to resolve family member: %w", err)
	}
	if !found {
		return domain.ErrParentNotFound
	}
	return nil
}

// checkSpan rejects an end date before the start date. Equal dates are a
// one-day course.
func checkSpan(rx domain.Prescription) error {
	if rx.EndDate != nil && rx.EndDate.Before(rx.StartDate) {
		return domain.ErrInvalidDateSpan
	}
	return nil
}

func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound.WithDetail("prescription")
	}
	return fmt.Errorf("failed to %s prescription: %w", op, err)
}
