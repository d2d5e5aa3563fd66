package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/redmonkez12/family-health-api/internal/domain"
)

// Scoped addresses one kind of resource nested under a family member.
type Scoped[T any] struct {
	c       *Client
	segment string
}

func (c *Client) MedicalRecords() *Scoped[domain.MedicalRecord] {
	return &Scoped[domain.MedicalRecord]{c: c, segment: "medical-records"}
}

func (c *Client) Prescriptions() *Scoped[domain.Prescription] {
	return &Scoped[domain.Prescription]{c: c, segment: "prescriptions"}
}

func (c *Client) HealthIndicators() *Scoped[domain.HealthIndicator] {
	return &Scoped[domain.HealthIndicator]{c: c, segment: "health-indicators"}
}

func (s *Scoped[T]) collection(familyMemberID int64) string {
	return familyMemberPath(familyMemberID) + "/" + s.segment
}

func (s *Scoped[T]) item(familyMemberID, id int64) string {
	return s.collection(familyMemberID) + "/" + strconv.FormatInt(id, 10)
}

func (s *Scoped[T]) List(ctx context.Context, familyMemberID int64) ([]T, error) {
	var items []T
	err := s.c.do(ctx, http.MethodGet, s.collection(familyMemberID), nil, &items)
	return items, err
}

func (s *Scoped[T]) Create(ctx context.Context, familyMemberID int64, body any) (T, error) {
	var v T
	err := s.c.do(ctx, http.MethodPost, s.collection(familyMemberID), body, &v)
	return v, err
}

func (s *Scoped[T]) Get(ctx context.Context, familyMemberID, id int64) (T, error) {
	var v T
	err := s.c.do(ctx, http.MethodGet, s.item(familyMemberID, id), nil, &v)
	return v, err
}

func (s *Scoped[T]) Update(ctx context.Context, familyMemberID, id int64, body any) (T, error) {
	var v T
	err := s.c.do(ctx, http.MethodPatch, s.item(familyMemberID, id), body, &v)
	return v, err
}

func (s *Scoped[T]) Delete(ctx context.Context, familyMemberID, id int64) (DeleteResponse[T], error) {
	var res DeleteResponse[T]
	err := s.c.do(ctx, http.MethodDelete, s.item(familyMemberID, id), nil, &res)
	return res, err
}
