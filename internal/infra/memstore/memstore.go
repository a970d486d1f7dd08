package memstore

import (
	"context"
	"sync"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/infra"
	"coffee-loyalty/internal/usecase/shared"
)

// Store is an in-process ledger. Transactions are serialized by a single
// mutex and writes are staged until fn returns nil.
type Store struct {
	mu          sync.Mutex
	customers   map[string]loyalty.Snapshot
	scans       []loyalty.ScanRecord
	redemptions []loyalty.RedemptionRecord
}

func New() *Store {
	return &Store{customers: make(map[string]loyalty.Snapshot)}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.run(ctx, false, fn)
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.run(ctx, true, fn)
}

func (s *Store) run(ctx context.Context, readOnly bool, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{store: s, readOnly: readOnly, pending: make(map[string]loyalty.Snapshot)}
	if err := fn(ctx, t); err != nil {
		return err
	}
	t.commit()
	return nil
}

// Customer returns the committed state of id.
func (s *Store) Customer(id string) (loyalty.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.customers[id]
	return snap, ok
}

// Put overwrites a customer outside any transaction. Intended for seeding.
func (s *Store) Put(snap loyalty.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[snap.ID] = snap
}

func (s *Store) ScanRecords() []loyalty.ScanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]loyalty.ScanRecord(nil), s.scans...)
}

func (s *Store) RedemptionRecords() []loyalty.RedemptionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]loyalty.RedemptionRecord(nil), s.redemptions...)
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = make(map[string]loyalty.Snapshot)
	s.scans = nil
	s.redemptions = nil
}

type tx struct {
	store    *Store
	readOnly bool

	pending     map[string]loyalty.Snapshot
	scans       []loyalty.ScanRecord
	redemptions []loyalty.RedemptionRecord
}

func (t *tx) Customers() shared.CustomerRepository     { return customerRepo{t} }
func (t *tx) Scans() shared.ScanRepository             { return scanRepo{t} }
func (t *tx) Redemptions() shared.RedemptionRepository { return redemptionRepo{t} }

func (t *tx) commit() {
	for id, snap := range t.pending {
		t.store.customers[id] = snap
	}
	t.store.scans = append(t.store.scans, t.scans...)
	t.store.redemptions = append(t.store.redemptions, t.redemptions...)
}

func (t *tx) lookup(id string) (loyalty.Snapshot, bool) {
	if snap, ok := t.pending[id]; ok {
		return snap, true
	}
	snap, ok := t.store.customers[id]
	return snap, ok
}

func (t *tx) checkWritable() error {
	if t.readOnly {
		return infra.WrapRepoErr("write in read-only transaction", nil, infra.KindDBFailure)
	}
	return nil
}

type customerRepo struct{ t *tx }

func (r customerRepo) Ensure(_ context.Context, id string) error {
	if err := r.t.checkWritable(); err != nil {
		return err
	}
	if _, ok := r.t.lookup(id); ok {
		return nil
	}
	r.t.pending[id] = loyalty.Snapshot{ID: id}
	return nil
}

func (r customerRepo) Find(_ context.Context, id string) (*loyalty.Customer, error) {
	snap, ok := r.t.lookup(id)
	if !ok {
		return nil, infra.WrapRepoErr("customer not found", nil, infra.KindNotFound)
	}
	c, err := loyalty.ReconstructCustomer(snap)
	if err != nil {
		return nil, infra.WrapRepoErr("stored customer is invalid", err, infra.KindDBFailure)
	}
	return c, nil
}

// FindForUpdate needs no extra locking; the store mutex is already held.
func (r customerRepo) FindForUpdate(ctx context.Context, id string) (*loyalty.Customer, error) {
	return r.Find(ctx, id)
}

func (r customerRepo) Save(_ context.Context, c *loyalty.Customer) error {
	if err := r.t.checkWritable(); err != nil {
		return err
	}
	if _, ok := r.t.lookup(c.ID()); !ok {
		return infra.WrapRepoErr("customer not found", nil, infra.KindNotFound)
	}
	r.t.pending[c.ID()] = c.Snapshot()
	return nil
}

type scanRepo struct{ t *tx }

func (r scanRepo) Append(_ context.Context, rec loyalty.ScanRecord) error {
	if err := r.t.checkWritable(); err != nil {
		return err
	}
	if _, ok := r.t.lookup(rec.CustomerID); !ok {
		return infra.WrapRepoErr("scan references unknown customer", nil, infra.KindForeignKeyViolated)
	}
	r.t.scans = append(r.t.scans, rec)
	return nil
}

func (r scanRepo) CountByCustomer(_ context.Context, customerID string) (int, error) {
	n := 0
	for _, rec := range r.t.store.scans {
		if rec.CustomerID == customerID {
			n++
		}
	}
	for _, rec := range r.t.scans {
		if rec.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

type redemptionRepo struct{ t *tx }

func (r redemptionRepo) Append(_ context.Context, rec loyalty.RedemptionRecord) error {
	if err := r.t.checkWritable(); err != nil {
		return err
	}
	if _, ok := r.t.lookup(rec.CustomerID); !ok {
		return infra.WrapRepoErr("redemption references unknown customer", nil, infra.KindForeignKeyViolated)
	}
	r.t.redemptions = append(r.t.redemptions, rec)
	return nil
}

func (r redemptionRepo) CountByCustomer(_ context.Context, customerID string) (int, error) {
	n := 0
	for _, rec := range r.t.store.redemptions {
		if rec.CustomerID == customerID {
			n++
		}
	}
	for _, rec := range r.t.redemptions {
		if rec.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}
