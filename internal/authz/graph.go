package authz

import (
	"context"
	"sync"
)

// Graph resolves the ownership relationships the Guard needs:
// Institution -> Company -> Job -> Application. Implementations return
// ErrNoSuchResource when the target row does not exist.
type Graph interface {
	// CompanyInstitution returns the owning institution ID for a company,
	// or "" when the company is not owned by any institution.
	CompanyInstitution(ctx context.Context, companyID string) (string, error)
	// JobCompany returns the owning company ID for a job.
	JobCompany(ctx context.Context, jobID string) (string, error)
	// ApplicationRefs returns the job and applicant a given application references.
	ApplicationRefs(ctx context.Context, applicationID string) (jobID, applicantIdentity string, err error)
}

// cachedGraph memoizes successful lookups. It is request-scoped: the Guard
// wraps the base graph per request so two-hop resolutions (job -> company ->
// institution) hit storage once, and nothing survives the request.
type cachedGraph struct {
	base Graph

	mu        sync.Mutex
	companies map[string]string
	jobs      map[string]string
	apps      map[string][2]string
}

func newCachedGraph(base Graph) *cachedGraph {
	return &cachedGraph{
		base:      base,
		companies: make(map[string]string),
		jobs:      make(map[string]string),
		apps:      make(map[string][2]string),
	}
}

func (g *cachedGraph) CompanyInstitution(ctx context.Context, companyID string) (string, error) {
	g.mu.Lock()
	if inst, ok := g.companies[companyID]; ok {
		g.mu.Unlock()
		return inst, nil
	}
	g.mu.Unlock()

	inst, err := g.base.CompanyInstitution(ctx, companyID)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	g.companies[companyID] = inst
	g.mu.Unlock()
	return inst, nil
}

func (g *cachedGraph) JobCompany(ctx context.Context, jobID string) (string, error) {
	g.mu.Lock()
	if company, ok := g.jobs[jobID]; ok {
		g.mu.Unlock()
		return company, nil
	}
	g.mu.Unlock()

	company, err := g.base.JobCompany(ctx, jobID)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	g.jobs[jobID] = company
	g.mu.Unlock()
	return company, nil
}

func (g *cachedGraph) ApplicationRefs(ctx context.Context, applicationID string) (string, string, error) {
	g.mu.Lock()
	if refs, ok := g.apps[applicationID]; ok {
		g.mu.Unlock()
		return refs[0], refs[1], nil
	}
	g.mu.Unlock()

	jobID, applicant, err := g.base.ApplicationRefs(ctx, applicationID)
	if err != nil {
		return "", "", err
	}
	g.mu.Lock()
	g.apps[applicationID] = [2]string{jobID, applicant}
	g.mu.Unlock()
	return jobID, applicant, nil
}
