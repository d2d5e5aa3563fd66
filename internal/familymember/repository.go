package familymember

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/family-health-api/internal/database"
	"github.com/redmonkez12/family-health-api/internal/domain"
)

// Repository stores family members in postgres.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, fm *domain.FamilyMember) error {
	row := toRow(fm)
	_, err := r.db.NewInsert().
		Model(row).
		ExcludeColumn("id", "created_at", "updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return domain.ErrNotFound.WithDetail("user")
		}
		return fmt.Errorf("failed to insert family member: %w", err)
	}
	*fm = toDomain(row)
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]domain.FamilyMember, error) {
	var rows []database.FamilyMember
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}

	out := make([]domain.FamilyMember, 0, len(rows))
	for i := range rows {
		out = append(out, toDomain(&rows[i]))
	}
	return out, nil
}

// FindOwned matches on both id and owner in one query, so a foreign row is
// indistinguishable from a missing one.
func (r *Repository) FindOwned(ctx context.Context, userID, familyMemberID int64) (domain.FamilyMember, bool, error) {
	row := new(database.FamilyMember)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", familyMemberID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.FamilyMember{}, false, nil
		}
		return domain.FamilyMember{}, false, fmt.Errorf("failed to find family member: %w", err)
	}
	return toDomain(row), true, nil
}

func (r *Repository) Update(ctx context.Context, fm *domain.FamilyMember) error {
	row := toRow(fm)
	row.UpdatedAt = time.Now().UTC()

	res, err := r.db.NewUpdate().
		Model(row).
		Column("name", "relation", "date_of_birth", "updated_at").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to update family member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	*fm = toDomain(row)
	return nil
}

// Delete relies on ON DELETE CASCADE for the scoped tables.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*database.FamilyMember)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete family member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toRow(fm *domain.FamilyMember) *database.FamilyMember {
	return &database.FamilyMember{
		ID:          fm.ID,
		UserID:      fm.UserID,
		Name:        fm.Name,
		Relation:    fm.Relation,
		DateOfBirth: fm.DateOfBirth,
		CreatedAt:   fm.CreatedAt,
		UpdatedAt:   fm.UpdatedAt,
	}
}

func toDomain(row *database.FamilyMember) domain.FamilyMember {
	return domain.FamilyMember{
		ID:          row.ID,
		UserID:      row.UserID,
		Name:        row.Name,
		Relation:    row.Relation,
		DateOfBirth: row.DateOfBirth,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
