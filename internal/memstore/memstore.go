// Package memstore is an in-memory implementation of every store the services
// use. It backs STORE_DRIVER=memory and the tests. It is safe for concurrent use.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redmonkez12/family-health-api/internal/clock"
	"github.com/redmonkez12/family-health-api/internal/domain"
)

// DB holds all tables behind one lock, which also makes the family-member
// cascade atomic.
type DB struct {
	mu    sync.RWMutex
	clock clock.Clock

	users       map[int64]domain.User
	userByEmail map[string]int64
	nextUserID  int64

	members      map[int64]domain.FamilyMember
	nextMemberID int64

	records    *Scoped[domain.MedicalRecord]
	rx         *Scoped[domain.Prescription]
	indicators *Scoped[domain.HealthIndicator]
}

func New() *DB {
	return NewWithClock(clock.System{})
}

func NewWithClock(clk clock.Clock) *DB {
	db := &DB{
		clock:       clk,
		users:       make(map[int64]domain.User),
		userByEmail: make(map[string]int64),
		members:     make(map[int64]domain.FamilyMember),
	}
	db.records = newScoped(db, func(r *domain.MedicalRecord) rowMeta {
		return rowMeta{&r.ID, &r.FamilyMemberID, &r.CreatedAt, &r.UpdatedAt}
	})
	db.rx = newScoped(db, func(p *domain.Prescription) rowMeta {
		return rowMeta{&p.ID, &p.FamilyMemberID, &p.CreatedAt, &p.UpdatedAt}
	})
	db.indicators = newScoped(db, func(h *domain.HealthIndicator) rowMeta {
		return rowMeta{&h.ID, &h.FamilyMemberID, &h.CreatedAt, &h.UpdatedAt}
	})
	return db
}

func (db *DB) Users() *Users { return &Users{db: db} }
func (db *DB) FamilyMembers() *FamilyMembers { return &FamilyMembers{db: db} }
func (db *DB) MedicalRecords() *Scoped[domain.MedicalRecord] { return db.records }
func (db *DB) Prescriptions() *Scoped[domain.Prescription] { return db.rx }
func (db *DB) HealthIndicators() *Scoped[domain.HealthIndicator] { return db.indicators }

func (db *DB) now() time.Time { return db.clock.Now().UTC() }

// Users is the credential store.
type Users struct{ db *DB }

func (u *Users) Create(_ context.Context, email, passwordHash string) (domain.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := u.db.userByEmail[key]; ok {
		return domain.User{}, domain.ErrDuplicateEmail
	}
	u.db.nextUserID++
	now := u.db.now()
	usr := domain.User{
		ID:           u.db.nextUserID,
		Email:        key,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u.db.users[usr.ID] = usr
	u.db.userByEmail[key] = usr.ID
	return usr, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (domain.User, bool, error) {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	id, ok := u.db.userByEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, false, nil
	}
	return u.db.users[id], true, nil
}

func (u *Users) GetByID(_ context.Context, id int64) (domain.User, bool, error) {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	usr, ok := u.db.users[id]
	return usr, ok, nil
}

type FamilyMembers struct{ db *DB }

func (f *FamilyMembers) Create(_ context.Context, fm *domain.FamilyMember) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	if _, ok := f.db.users[fm.UserID]; !ok {
		return domain.ErrNotFound
	}
	f.db.nextMemberID++
	now := f.db.now()
	fm.ID = f.db.nextMemberID
	fm.CreatedAt = now
	fm.UpdatedAt = now
	f.db.members[fm.ID] = *fm
	return nil
}

func (f *FamilyMembers) ListByUser(_ context.Context, userID int64) ([]domain.FamilyMember, error) {
	f.db.mu.RLock()
	defer f.db.mu.RUnlock()

	out := make([]domain.FamilyMember, 0)
	for _, fm := range f.db.members {
		if fm.UserID == userID {
			out = append(out, fm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FamilyMembers) FindOwned(_ context.Context, userID, familyMemberID int64) (domain.FamilyMember, bool, error) {
	f.db.mu.RLock()
	defer f.db.mu.RUnlock()
	fm, ok := f.db.members[familyMemberID]
	if !ok || fm.UserID != userID {
		return domain.FamilyMember{}, false, nil
	}
	return fm, true, nil
}

func (f *FamilyMembers) Update(_ context.Context, fm *domain.FamilyMember) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	existing, ok := f.db.members[fm.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// Ownership is immutable.
	fm.UserID = existing.UserID
	fm.CreatedAt = existing.CreatedAt
	fm.UpdatedAt = f.db.now()
	f.db.members[fm.ID] = *fm
	return nil
}

// Delete removes the family member and everything filed under it.
func (f *FamilyMembers) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.members[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.db.members, id)
	f.db.records.deleteFamilyLocked(id)
	f.db.rx.deleteFamilyLocked(id)
	f.db.indicators.deleteFamilyLocked(id)
	return nil
}

type rowMeta struct {
	id        *int64
	family    *int64
	createdAt *time.Time
	updatedAt *time.Time
}

// Scoped is a table of rows owned by a family member.
type Scoped[T any] struct {
	db     *DB
	meta   func(*T) rowMeta
	rows   map[int64]T
	nextID int64
}

func newScoped[T any](db *DB, meta func(*T) rowMeta) *Scoped[T] {
	return &Scoped[T]{db: db, meta: meta, rows: make(map[int64]T)}
}

func (s *Scoped[T]) Create(_ context.Context, row *T) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	m := s.meta(row)
	if _, ok := s.db.members[*m.family]; !ok {
		return domain.ErrParentNotFound
	}
	s.nextID++
	now := s.db.now()
	*m.id = s.nextID
	*m.createdAt = now
	*m.updatedAt = now
	s.rows[*m.id] = *row
	return nil
}

func (s *Scoped[T]) ListByFamilyMember(_ context.Context, familyMemberID int64) ([]T, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	ids := make([]int64, 0)
	for id, row := range s.rows {
		if *s.meta(&row).family == familyMemberID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.rows[id])
	}
	return out, nil
}

func (s *Scoped[T]) FindInFamily(_ context.Context, familyMemberID, id int64) (T, bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var zero T
	row, ok := s.rows[id]
	if !ok || *s.meta(&row).family != familyMemberID {
		return zero, false, nil
	}
	return row, true, nil
}

func (s *Scoped[T]) Update(_ context.Context, row *T) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	m := s.meta(row)
	existing, ok := s.rows[*m.id]
	if !ok {
		return domain.ErrNotFound
	}
	em := s.meta(&existing)
	*m.family = *em.family
	*m.createdAt = *em.createdAt
	*m.updatedAt = s.db.now()
	s.rows[*m.id] = *row
	return nil
}

func (s *Scoped[T]) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *Scoped[T]) deleteFamilyLocked(familyMemberID int64) {
	for id, row := range s.rows {
		if *s.meta(&row).family == familyMemberID {
			delete(s.rows, id)
		}
	}
}
