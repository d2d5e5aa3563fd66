// Package healthindicator tracks measurements such as weight, blood pressure
// or glucose for a family member.
package healthindicator

import (
	"context"
	"errors"
	"fmt"

	"github.com/oapi-codegen/nullable"

	"github.com/redmonkez12/family-health-api/internal/domain"
	"github.com/redmonkez12/family-health-api/internal/ownership"
)

type Store interface {
	ownership.ScopedFinder[domain.HealthIndicator]
	Create(ctx context.Context, hi *domain.HealthIndicator) error
	ListByFamilyMember(ctx context.Context, familyMemberID int64) ([]domain.HealthIndicator, error)
	Update(ctx context.Context, hi *domain.HealthIndicator) error
	Delete(ctx context.Context, id int64) error
}

// CreateInput carries the value as text so readings like "120/80" keep their
// form.
type CreateInput struct {
	IndicatorType string  `json:"indicatorType"`
	Value         string  `json:"value"`
	Unit          *string `json:"unit"`
	Date          string  `json:"date"`
	Notes         *string `json:"notes"`
}

type UpdateInput struct {
	IndicatorType nullable.Nullable[string] `json:"indicatorType"`
	Value         nullable.Nullable[string] `json:"value"`
	Unit          nullable.Nullable[string] `json:"unit"`
	Date          nullable.Nullable[string] `json:"date"`
	Notes         nullable.Nullable[string] `json:"notes"`
}

type Service struct {
	store    Store
	resolver *ownership.Resolver
}

func NewService(store Store, resolver *ownership.Resolver) *Service {
	return &Service{store: store, resolver: resolver}
}

func (s *Service) Create(ctx context.Context, userID, familyMemberID int64, in CreateInput) (domain.HealthIndicator, error) {
	if err := s.requireFamilyMember(ctx, userID, familyMemberID); err != nil {
		return domain.HealthIndicator{}, err
	}

	hi := domain.HealthIndicator{
		FamilyMemberID: familyMemberID,
		Unit:           domain.OptionalText(in.Unit),
		Notes:          domain.OptionalText(in.Notes),
	}
	var err error
	if hi.IndicatorType, err = domain.RequiredText("indicatorType", in.IndicatorType); err != nil {
		return domain.HealthIndicator{}, err
	}
	if hi.Value, err = domain.RequiredText("value", in.Value); err != nil {
		return domain.HealthIndicator{}, err
	}
	if hi.Date, err = domain.RequiredInstant("date", in.Date); err != nil {
		return domain.HealthIndicator{}, err
	}

	if err := s.store.Create(ctx, &hi); err != nil {
		if errors.Is(err, domain.ErrParentNotFound) {
			return domain.HealthIndicator{}, domain.ErrParentNotFound
		}
		return domain.HealthIndicator{}, fmt.Errorf("failed to create health indicator: %w", err)
	}
	return hi, nil
}

func (s *Service) List(ctx context.Context, userID, familyMemberID int64) ([]domain.HealthIndicator, error) {
	if err := s.requireFamilyMember(ctx, userID, familyMemberID); err != nil {
		return nil, err
	}
	list, err := s.store.ListByFamilyMember(ctx, familyMemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list health indicators: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, userID, familyMemberID, id int64) (domain.HealthIndicator, error) {
	hi, found, err := ownership.SubResource[domain.HealthIndicator](ctx, s.resolver, s.store, userID, familyMemberID, id)
	if err != nil {
		return domain.HealthIndicator{}, fmt.Errorf("failed to resolve health indicator: %w", err)
	}
	if !found {
		return domain.HealthIndicator{}, domain.ErrNotFound.WithDetail("health indicator")
	}
	return hi, nil
}

func (s *Service) Update(ctx context.Context, userID, familyMemberID, id int64, in UpdateInput) (domain.HealthIndicator, error) {
	hi, err := s.Get(ctx, userID, familyMemberID, id)
	if err != nil {
		return domain.HealthIndicator{}, err
	}

	err = domain.ApplyPatches(
		func() (bool, error) { return domain.PatchText("indicatorType", in.IndicatorType, &hi.IndicatorType) },
		func() (bool, error) { return domain.PatchText("value", in.Value, &hi.Value) },
		func() (bool, error) { return domain.PatchOptionalText(in.Unit, &hi.Unit), nil },
		func() (bool, error) { return domain.PatchInstant("date", in.Date, &hi.Date) },
		func() (bool, error) { return domain.PatchOptionalText(in.Notes, &hi.Notes), nil },
	)
	if err != nil {
		return domain.HealthIndicator{}, err
	}

	if err := s.store.Update(ctx, &hi); err != nil {
		return domain.HealthIndicator{}, storeError("update", err)
	}
	return hi, nil
}

func (s *Service) Delete(ctx context.Context, userID, familyMemberID, id int64) (domain.HealthIndicator, error) {
	hi, err := s.Get(ctx, userID, familyMemberID, id)
	if err != nil {
		return domain.HealthIndicator{}, err
	}
	if err := s.store.Delete(ctx, hi.ID); err != nil {
		return domain.HealthIndicator{}, storeError("delete", err)
	}
	return hi, nil
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

func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound.WithDetail("health indicator")
	}
	return fmt.Errorf("failed to %s health indicator: %w", op, err)
}
