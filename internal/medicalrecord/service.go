// Package medicalrecord manages visit notes, diagnoses and similar records
// filed under a family member.
package medicalrecord

import (
	"context"
	"errors"
	"fmt"

	"github.com/oapi-codegen/nullable"

	"github.com/redmonkez12/family-health-api/internal/domain"
	"github.com/redmonkez12/family-health-api/internal/ownership"
)

type Store interface {
	ownership.ScopedFinder[domain.MedicalRecord]
	Create(ctx context.Context, rec *domain.MedicalRecord) error
	ListByFamilyMember(ctx context.Context, familyMemberID int64) ([]domain.MedicalRecord, error)
	Update(ctx context.Context, rec *domain.MedicalRecord) error
	Delete(ctx context.Context, id int64) error
}

type CreateInput struct {
	RecordType  string  `json:"recordType"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Attachments *string `json:"attachments"`
}

type UpdateInput struct {
	RecordType  nullable.Nullable[string] `json:"recordType"`
	Description nullable.Nullable[string] `json:"description"`
	Date        nullable.Nullable[string] `json:"date"`
	Attachments nullable.Nullable[string] `json:"attachments"`
}

type Service struct {
	store    Store
	resolver *ownership.Resolver
}

func NewService(store Store, resolver *ownership.Resolver) *Service {
	return &Service{store: store, resolver: resolver}
}

func (s *Service) Create(ctx context.Context, userID, familyMemberID int64, in CreateInput) (domain.MedicalRecord, error) {
	if err := s.requireFamilyMember(ctx, userID, familyMemberID); err != nil {
		return domain.MedicalRecord{}, err
	}

	recordType, err := domain.RequiredText("recordType", in.RecordType)
	if err != nil {
		return domain.MedicalRecord{}, err
	}
	description, err := domain.RequiredText("description", in.Description)
	if err != nil {
		return domain.MedicalRecord{}, err
	}
	date, err := domain.RequiredInstant("date", in.Date)
	if err != nil {
		return domain.MedicalRecord{}, err
	}

	rec := domain.MedicalRecord{
		FamilyMemberID: familyMemberID,
		RecordType:     recordType,
		Description:    description,
		Date:           date,
		Attachments:    domain.OptionalText(in.Attachments),
	}
	if err := s.store.Create(ctx, &rec); err != nil {
		if errors.Is(err, domain.ErrParentNotFound) {
			return domain.MedicalRecord{}, domain.ErrParentNotFound
		}
		return domain.MedicalRecord{}, fmt.Errorf("failed to create medical record: %w", err)
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, userID, familyMemberID int64) ([]domain.MedicalRecord, error) {
	if err := s.requireFamilyMember(ctx, userID, familyMemberID); err != nil {
		return nil, err
	}
	records, err := s.store.ListByFamilyMember(ctx, familyMemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (s *Service) Get(ctx context.Context, userID, familyMemberID, id int64) (domain.MedicalRecord, error) {
	rec, found, err := ownership.SubResource[domain.MedicalRecord](ctx, s.resolver, s.store, userID, familyMemberID, id)
	if err != nil {
		return domain.MedicalRecord{}, fmt.Errorf("failed to resolve medical record: %w", err)
	}
	if !found {
		return domain.MedicalRecord{}, domain.ErrNotFound.WithDetail("medical record")
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, userID, familyMemberID, id int64, in UpdateInput) (domain.MedicalRecord, error) {
	rec, err := s.Get(ctx, userID, familyMemberID, id)
	if err != nil {
		return domain.MedicalRecord{}, err
	}

	err = domain.ApplyPatches(
		func() (bool, error) { return domain.PatchText("recordType", in.RecordType, &rec.RecordType) },
		func() (bool, error) { return domain.PatchText("description", in.Description, &rec.Description) },
		func() (bool, error) { return domain.PatchInstant("date", in.Date, &rec.Date) },
		func() (bool, error) { return domain.PatchOptionalText(in.Attachments, &rec.Attachments), nil },
	)
	if err != nil {
		return domain.MedicalRecord{}, err
	}

	if err := s.store.Update(ctx, &rec); err != nil {
		return domain.MedicalRecord{}, storeError("update", err)
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, userID, familyMemberID, id int64) (domain.MedicalRecord, error) {
	rec, err := s.Get(ctx, userID, familyMemberID, id)
	if err != nil {
		return domain.MedicalRecord{}, err
	}
	if err := s.store.Delete(ctx, rec.ID); err != nil {
		return domain.MedicalRecord{}, storeError("delete", err)
	}
	return rec, nil
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
		return domain.ErrNotFound.WithDetail("medical record")
	}
	return fmt.Errorf("failed to %s medical record: %w", op, err)
}
