package applications

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu           sync.Mutex
	applications map[string]Application
	byPair       map[[2]string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		applications: make(map[string]Application),
		byPair:       make(map[[2]string]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, application Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pair := [2]string{application.JobID, application.ApplicantIdentity}
	if _, exists := r.byPair[pair]; exists {
		return ErrDuplicate
	}
	application.AppliedAt = time.Now().UTC()
	r.applications[application.ID] = application
	r.byPair[pair] = application.ID
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	application, ok := r.applications[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return application, nil
}

func (r *MemoryRepo) ListByApplicant(ctx context.Context, applicantIdentity string) ([]Application, error) {
	return r.filter(ctx, func(a Application) bool {
		return a.ApplicantIdentity == applicantIdentity
	})
}

func (r *MemoryRepo) ListByJobIDs(ctx context.Context, jobIDs []string) ([]Application, error) {
	wanted := toSet(jobIDs)
	return r.filter(ctx, func(a Application) bool {
		return wanted[a.JobID]
	})
}

func (r *MemoryRepo) CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wanted := toSet(jobIDs)
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int)
	for _, application := range r.applications {
		if wanted[application.JobID] {
			out[application.JobID]++
		}
	}
	return out, nil
}

func (r *MemoryRepo) CountPendingByJobIDs(ctx context.Context, jobIDs []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	wanted := toSet(jobIDs)
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, application := range r.applications {
		if wanted[application.JobID] && application.Status == StatusPending {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	application, ok := r.applications[id]
	if !ok {
		return ErrNotFound
	}
	application.Status = status
	r.applications[id] = application
	return nil
}

func (r *MemoryRepo) Refs(ctx context.Context, id string) (string, string, error) {
	application, err := r.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return application.JobID, application.ApplicantIdentity, nil
}

func (r *MemoryRepo) filter(ctx context.Context, keep func(Application) bool) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Application
	for _, application := range r.applications {
		if keep(application) {
			out = append(out, application)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	return out, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
