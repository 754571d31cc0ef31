package repository

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/department-service/internal/domain"
)

// ErrReadOnlyTx is returned when a write is attempted in a read-only transaction.
var ErrReadOnlyTx = errors.New("cannot write in a read-only transaction")

// MemoryStore keeps departments in process memory. Transactions are
// serialized; a failed transaction restores the state seen at begin.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Department
}

var _ Transactor = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int64]domain.Department)}
}

func (s *MemoryStore) WithinTx(ctx context.Context, mode TxMode, fn func(repo DepartmentRepository) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := maps.Clone(s.rows)
	nextID := s.nextID
	repo := &memoryRepository{store: s, readOnly: mode == ReadOnly}

	defer func() {
		if p := recover(); p != nil {
			s.rows, s.nextID = snapshot, nextID
			panic(p)
		}
		if err != nil {
			s.rows, s.nextID = snapshot, nextID
		}
	}()

	return fn(repo)
}

// memoryRepository is only valid while its transaction holds the store lock.
type memoryRepository struct {
	store    *MemoryStore
	readOnly bool
}

func (r *memoryRepository) FindByID(ctx context.Context, id int64) (domain.Department, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Department{}, false, err
	}
	dept, ok := r.store.rows[id]
	return dept, ok, nil
}

func (r *memoryRepository) FindAll(ctx context.Context) ([]domain.Department, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make([]domain.Department, 0, len(r.store.rows))
	for _, id := range slices.Sorted(maps.Keys(r.store.rows)) {
		result = append(result, r.store.rows[id])
	}
	return result, nil
}

func (r *memoryRepository) Save(ctx context.Context, dept *domain.Department) error {
	if err := r.writable(ctx); err != nil {
		return err
	}
	if dept.IsNew() {
		r.store.nextID++
		dept.ID = r.store.nextID
	} else if _, ok := r.store.rows[dept.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.store.rows[dept.ID] = *dept
	return nil
}

func (r *memoryRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.writable(ctx); err != nil {
		return err
	}
	delete(r.store.rows, id)
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, dept domain.Department) error {
	return r.DeleteByID(ctx, dept.ID)
}

func (r *memoryRepository) writable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.readOnly {
		return ErrReadOnlyTx
	}
	return nil
}
