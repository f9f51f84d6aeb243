package jobs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]Job)}
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job.CreatedAt = time.Now().UTC()
	r.jobs[job.ID] = job
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *MemoryRepo) SetVisible(ctx context.Context, id string, visible bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	job.Visible = visible
	r.jobs[id] = job
	return nil
}

func (r *MemoryRepo) ListPublic(ctx context.Context, filter Filter) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Job
	for _, job := range r.jobs {
		if !job.Visible {
			continue
		}
		if !matchesFilter(job, filter) {
			continue
		}
		out = append(out, job)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) ListByCompany(ctx context.Context, companyID string) ([]Job, error) {
	return r.ListByCompanyIDs(ctx, []string{companyID})
}

func (r *MemoryRepo) ListByCompanyIDs(ctx context.Context, companyIDs []string) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(companyIDs))
	for _, id := range companyIDs {
		wanted[id] = true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Job
	for _, job := range r.jobs {
		if wanted[job.CompanyID] {
			out = append(out, job)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, func(job Job) string { return job.Category })
}

func (r *MemoryRepo) Locations(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, func(job Job) string { return job.Location })
}

func (r *MemoryRepo) CompanyID(ctx context.Context, jobID string) (string, error) {
	job, err := r.GetByID(ctx, jobID)
	if err != nil {
		return "", err
	}
	return job.CompanyID, nil
}

func (r *MemoryRepo) distinct(ctx context.Context, field func(Job) string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, job := range r.jobs {
		if !job.Visible {
			continue
		}
		value := field(job)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	sort.Strings(out)
	return out, nil
}

func matchesFilter(job Job, filter Filter) bool {
	if title := strings.TrimSpace(filter.Title); title != "" {
		if !strings.Contains(strings.ToLower(job.Title), strings.ToLower(title)) {
			return false
		}
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		if !strings.Contains(strings.ToLower(job.Location), strings.ToLower(location)) {
			return false
		}
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		if job.Category != category {
			return false
		}
	}
	return true
}

func sortNewestFirst(list []Job) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
