package seekers

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	seekers map[string]Seeker
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{seekers: make(map[string]Seeker)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, seeker Seeker) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.seekers[seeker.Identity]
	now := time.Now().UTC()
	if ok {
		seeker.CreatedAt = existing.CreatedAt
	} else {
		seeker.CreatedAt = now
	}
	seeker.UpdatedAt = now
	r.seekers[seeker.Identity] = seeker
	return nil
}

func (r *MemoryRepo) GetByIdentity(ctx context.Context, identity string) (Seeker, error) {
	if err := ctx.Err(); err != nil {
		return Seeker{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seeker, ok := r.seekers[identity]
	if !ok {
		return Seeker{}, ErrNotFound
	}
	return seeker, nil
}
