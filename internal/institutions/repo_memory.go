package institutions

import (
	"context"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu           sync.RWMutex
	institutions map[string]Institution
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{institutions: make(map[string]Institution)}
}

func (r *MemoryRepo) Create(ctx context.Context, institution Institution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.institutions {
		if strings.EqualFold(existing.Email, institution.Email) {
			return ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	institution.CreatedAt = now
	institution.UpdatedAt = now
	r.institutions[institution.ID] = institution
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Institution, error) {
	if err := ctx.Err(); err != nil {
		return Institution{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	institution, ok := r.institutions[id]
	if !ok {
		return Institution{}, ErrNotFound
	}
	return institution, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (Institution, error) {
	if err := ctx.Err(); err != nil {
		return Institution{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, institution := range r.institutions {
		if strings.EqualFold(institution.Email, email) {
			return institution, nil
		}
	}
	return Institution{}, ErrNotFound
}

func (r *MemoryRepo) Update(ctx context.Context, institution Institution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.institutions[institution.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range r.institutions {
		if id != institution.ID && strings.EqualFold(other.Email, institution.Email) {
			return ErrDuplicateEmail
		}
	}
	institution.CreatedAt = existing.CreatedAt
	institution.UpdatedAt = time.Now().UTC()
	r.institutions[institution.ID] = institution
	return nil
}
