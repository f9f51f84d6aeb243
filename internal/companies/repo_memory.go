package companies

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	companies map[string]Company
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{companies: make(map[string]Company)}
}

func (r *MemoryRepo) Create(ctx context.Context, company Company) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.companies {
		if strings.EqualFold(existing.Email, company.Email) {
			return ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now
	r.companies[company.ID] = company
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	company, ok := r.companies[id]
	if !ok {
		return Company{}, ErrNotFound
	}
	return company, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, company := range r.companies {
		if strings.EqualFold(company.Email, email) {
			return company, nil
		}
	}
	return Company{}, ErrNotFound
}

func (r *MemoryRepo) Update(ctx context.Context, company Company) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.companies[company.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range r.companies {
		if id != company.ID && strings.EqualFold(other.Email, company.Email) {
			return ErrDuplicateEmail
		}
	}
	company.CreatedAt = existing.CreatedAt
	company.UpdatedAt = time.Now().UTC()
	r.companies[company.ID] = company
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[id]; !ok {
		return ErrNotFound
	}
	delete(r.companies, id)
	return nil
}

func (r *MemoryRepo) ListByInstitution(ctx context.Context, institutionID string) ([]Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Company
	for _, company := range r.companies {
		if company.InstitutionID == institutionID {
			out = append(out, company)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) InstitutionID(ctx context.Context, companyID string) (string, error) {
	company, err := r.GetByID(ctx, companyID)
	if err != nil {
		return "", err
	}
	return company.InstitutionID, nil
}
