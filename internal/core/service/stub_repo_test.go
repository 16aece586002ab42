package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// stubAccountRepo is an in-memory AccountRepository enforcing the same
// uniqueness rules as the real stores.
type stubAccountRepo struct {
	mu       sync.Mutex
	byID     map[int64]*domain.Account
	nextID   int64
	findErr  error // if set, lookups return this error
	createFn func(*domain.Account) error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[int64]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) conflict(a *domain.Account) error {
	for id, existing := range r.byID {
		if id == a.ID {
			continue
		}
		if existing.Username == a.Username {
			return &domain.DuplicateFieldError{Field: "username"}
		}
		if existing.Email == a.Email {
			return &domain.DuplicateFieldError{Field: "email"}
		}
	}
	return nil
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createFn != nil {
		if err := r.createFn(a); err != nil {
			return nil, err
		}
	}
	if err := r.conflict(a); err != nil {
		return nil, err
	}
	r.nextID++
	stored := cloneAccount(a)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.byID {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) List(_ context.Context, skip, limit int) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []*domain.Account{}
	for i := skip; i < len(ids) && len(out) < limit; i++ {
		a := cloneAccount(r.byID[ids[i]])
		a.PasswordHash = ""
		out = append(out, a)
	}
	return out, nil
}

func (r *stubAccountRepo) Replace(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[a.ID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if err := r.conflict(a); err != nil {
		return nil, err
	}
	stored := cloneAccount(a)
	if stored.PasswordHash == "" {
		stored.PasswordHash = existing.PasswordHash
	}
	r.byID[a.ID] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) Update(_ context.Context, id int64, patch domain.AccountPatch) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	updated := cloneAccount(existing)
	patch.Apply(updated)
	if err := r.conflict(updated); err != nil {
		return nil, err
	}
	r.byID[id] = updated
	return cloneAccount(updated), nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAccountRepo) Ping(context.Context) error { return nil }

// stubIdempotency is an in-memory IdempotencyStore.
type stubIdempotency struct {
	keys      map[string]int64
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64)}
}

func (s *stubIdempotency) Lookup(_ context.Context, key string) (int64, bool, error) {
	if s.lookupErr != nil {
		return 0, false, s.lookupErr
	}
	id, ok := s.keys[key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, key string, id int64) error {
	if _, ok := s.keys[key]; ok {
		return errors.New("key already set")
	}
	s.keys[key] = id
	return nil
}
