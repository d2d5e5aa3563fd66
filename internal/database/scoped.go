package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/family-health-api/internal/domain"
)

// ScopedRepository stores rows that belong to a family member. Row is the Bun
// model, E the domain entity; the mapping functions translate between them.
type ScopedRepository[Row any, E any] struct {
	db       *bun.DB
	name     string
	columns  []string
	toRow    func(*E) *Row
	toDomain func(*Row) E
	touch    func(*Row, time.Time)
}

// NewScopedRepository builds a repository. columns are the user-editable
// columns written on update; touch stamps updated_at.
func NewScopedRepository[Row any, E any](
	db *bun.DB,
	name string,
	columns []string,
	toRow func(*E) *Row,
	toDomain func(*Row) E,
	touch func(*Row, time.Time),
) *ScopedRepository[Row, E] {
	return &ScopedRepository[Row, E]{
		db:       db,
		name:     name,
		columns:  append(append([]string{}, columns...), "updated_at"),
		toRow:    toRow,
		toDomain: toDomain,
		touch:    touch,
	}
}

func (r *ScopedRepository[Row, E]) Create(ctx context.Context, e *E) error {
	row := r.toRow(e)
	_, err := r.db.NewInsert().
		Model(row).
		ExcludeColumn("id", "created_at", "updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return domain.ErrParentNotFound
		}
		return fmt.Errorf("failed to insert %s: %w", r.name, err)
	}
	*e = r.toDomain(row)
	return nil
}

func (r *ScopedRepository[Row, E]) ListByFamilyMember(ctx context.Context, familyMemberID int64) ([]E, error) {
	var rows []Row
	err := r.db.NewSelect().
		Model(&rows).
		Where("family_member_id = ?", familyMemberID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.name, err)
	}

	out := make([]E, 0, len(rows))
	for i := range rows {
		out = append(out, r.toDomain(&rows[i]))
	}
	return out, nil
}

// FindInFamily looks a row up by id and family member in one query.
func (r *ScopedRepository[Row, E]) FindInFamily(ctx context.Context, familyMemberID, id int64) (E, bool, error) {
	var zero E
	row := new(Row)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Where("family_member_id = ?", familyMemberID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to find %s: %w", r.name, err)
	}
	return r.toDomain(row), true, nil
}

func (r *ScopedRepository[Row, E]) Update(ctx context.Context, e *E) error {
	row := r.toRow(e)
	r.touch(row, time.Now().UTC())

	res, err := r.db.NewUpdate().
		Model(row).
		Column(r.columns...).
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to update %s: %w", r.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	*e = r.toDomain(row)
	return nil
}

func (r *ScopedRepository[Row, E]) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*Row)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
