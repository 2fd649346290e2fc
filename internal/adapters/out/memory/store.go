// Package memory is a process-local order store implementing the same unit of
// work contract as the postgres adapter. It backs the CLI's default mode and the
// end-to-end tests.
//
// Transactions have read-committed semantics: repository reads inside a unit of
// work see committed rows only, and staged writes become visible on Commit.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"orderstate/internal/core/domain/model/kernel"
	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/core/ports"
	"orderstate/internal/pkg/errs"
)

// ErrNoTransaction is returned by Commit and Rollback without a preceding Begin.
var ErrNoTransaction = errors.New("no active transaction")

type row struct {
	id     kernel.UUID
	key    order.BusinessKey
	status order.Status
}

func (r row) restore() (*order.Order, error) {
	return order.RestoreOrder(r.id, r.key, r.status)
}

// Store holds orders by business key. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	rows map[order.BusinessKey]row
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{rows: make(map[order.BusinessKey]row)}
}

// Create implements ports.UnitOfWorkFactory.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

type mutation func(rows map[order.BusinessKey]row) error

func duplicateKey(key order.BusinessKey) error {
	return errs.NewValueIsInvalidErrorWithCause("businessKey",
		fmt.Errorf("order %d already exists", key))
}

func insert(r row) mutation {
	return func(rows map[order.BusinessKey]row) error {
		if _, ok := rows[r.key]; ok {
			return duplicateKey(r.key)
		}
		rows[r.key] = r
		return nil
	}
}

func update(r row) mutation {
	return func(rows map[order.BusinessKey]row) error {
		existing, ok := rows[r.key]
		if !ok {
			return errs.NewObjectNotFoundError("businessKey", r.key.Int())
		}
		existing.status = r.status
		rows[r.key] = existing
		return nil
	}
}

// apply runs mutations against a copy and swaps it in only when all succeed.
func (s *Store) apply(mutations ...mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[order.BusinessKey]row, len(s.rows)+len(mutations))
	for k, v := range s.rows {
		next[k] = v
	}
	for _, m := range mutations {
		if err := m(next); err != nil {
			return err
		}
	}

	s.rows = next
	return nil
}

func (s *Store) get(key order.BusinessKey) (row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[key]
	return r, ok
}

func (s *Store) all() []row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]row, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// UnitOfWork stages writes between Begin and Commit.
// Without Begin, repository writes are applied immediately.
type UnitOfWork struct {
	store  *Store
	active bool
	staged []mutation
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	u.active = true
	return nil
}

// Commit applies every staged write atomically. On error nothing is applied
// and the transaction is closed.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}

	staged := u.staged
	u.active, u.staged = false, nil
	return u.store.apply(staged...)
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}

	u.active, u.staged = false, nil
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: u}
}

func (u *UnitOfWork) write(m mutation) error {
	if u.active {
		u.staged = append(u.staged, m)
		return nil
	}
	return u.store.apply(m)
}

// OrderRepository implements ports.OrderRepository over a Store.
type OrderRepository struct {
	uow *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	rec := row{id: aggregate.ID(), key: aggregate.BusinessKey(), status: aggregate.Status()}

	if _, taken := r.uow.store.get(rec.key); taken {
		return duplicateKey(rec.key)
	}
	return r.uow.write(insert(rec))
}

func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.write(update(row{key: aggregate.BusinessKey(), status: aggregate.Status()}))
}

func (r *OrderRepository) GetByBusinessKey(_ context.Context, key order.BusinessKey) (*order.Order, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	found, ok := r.uow.store.get(key)
	if !ok {
		return nil, errs.NewObjectNotFoundError("businessKey", key.Int())
	}
	return found.restore()
}

func (r *OrderRepository) GetAll(_ context.Context) ([]*order.Order, error) {
	rows := r.uow.store.all()
	orders := make([]*order.Order, 0, len(rows))
	for _, rec := range rows {
		o, err := rec.restore()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// GetAll lists committed orders. It lets the store serve queries.OrderReader directly.
func (s *Store) GetAll(ctx context.Context) ([]*order.Order, error) {
	return s.Create().OrderRepository().GetAll(ctx)
}
