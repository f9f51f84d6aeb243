package authz

import (
	"context"

	"jobboard-backend/internal/shared/metrics"
)

// Guard is the authorization decision point. Every protected operation in
// the resource services goes through exactly one of its methods; a nil
// return means allow, a Denial explains the refusal.
type Guard struct {
	graph Graph
}

// NewGuard builds a Guard over the given ownership graph.
func NewGuard(graph Graph) *Guard {
	return &Guard{graph: graph}
}

// ForRequest returns a Guard whose ownership lookups are memoized for the
// lifetime of a single request. Decisions are never cached across requests.
func (g *Guard) ForRequest() *Guard {
	return &Guard{graph: newCachedGraph(g.graph)}
}

// CanCreateCompany allows institutions to create companies under themselves.
func (g *Guard) CanCreateCompany(ctx context.Context, p Principal) error {
	if !p.Authenticated() {
		return g.decide(ErrUnauthenticated)
	}
	if p.Kind != KindInstitution {
		return g.decide(ErrNotOwner)
	}
	return g.decide(nil)
}

// CanManageCompany allows the company itself or its owning institution to
// read, update, or delete the company profile.
func (g *Guard) CanManageCompany(ctx context.Context, p Principal, companyID string) error {
	return g.decide(g.manageCompany(ctx, p, companyID))
}

// CanCreateJob allows companies to post jobs owned by themselves.
func (g *Guard) CanCreateJob(ctx context.Context, p Principal) error {
	if !p.Authenticated() {
		return g.decide(ErrUnauthenticated)
	}
	if p.Kind != KindCompany {
		return g.decide(ErrNotOwner)
	}
	return g.decide(nil)
}

// CanManageJob allows the owning company or that company's owning
// institution to update, delete, or toggle visibility of a job. The
// institution case is the two-hop resolution job -> company -> institution.
func (g *Guard) CanManageJob(ctx context.Context, p Principal, jobID string) error {
	return g.decide(g.manageJob(ctx, p, jobID))
}

// CanCreateApplication allows seekers to apply to an existing job.
// Duplicate applications are rejected at the storage layer, not here.
func (g *Guard) CanCreateApplication(ctx context.Context, p Principal, jobID string) error {
	if !p.Authenticated() {
		return g.decide(ErrUnauthenticated)
	}
	if p.Kind != KindSeeker {
		return g.decide(ErrNotOwner)
	}
	if _, err := g.graph.JobCompany(ctx, jobID); err != nil {
		return g.decide(err)
	}
	return g.decide(nil)
}

// CanManageApplication allows the owning company of the referenced job, or
// that company's owning institution, to read or change an application.
func (g *Guard) CanManageApplication(ctx context.Context, p Principal, applicationID string) error {
	if !p.Authenticated() {
		return g.decide(ErrUnauthenticated)
	}
	jobID, _, err := g.graph.ApplicationRefs(ctx, applicationID)
	if err != nil {
		return g.decide(err)
	}
	return g.decide(g.manageJob(ctx, p, jobID))
}

// CanReadOwnApplication allows the seeker who created an application to read it.
func (g *Guard) CanReadOwnApplication(ctx context.Context, p Principal, applicationID string) error {
	if !p.Authenticated() {
		return g.decide(ErrUnauthenticated)
	}
	if p.Kind != KindSeeker {
		return g.decide(ErrNotOwner)
	}
	_, applicant, err := g.graph.ApplicationRefs(ctx, applicationID)
	if err != nil {
		return g.decide(err)
	}
	if applicant != p.ID {
		return g.decide(ErrNotOwner)
	}
	return g.decide(nil)
}

func (g *Guard) manageJob(ctx context.Context, p Principal, jobID string) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	companyID, err := g.graph.JobCompany(ctx, jobID)
	if err != nil {
		return err
	}
	return g.manageCompany(ctx, p, companyID)
}

func (g *Guard) manageCompany(ctx context.Context, p Principal, companyID string) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	switch p.Kind {
	case KindCompany:
		if p.ID == companyID {
			return nil
		}
		return ErrNotOwner
	case KindInstitution:
		owner, err := g.graph.CompanyInstitution(ctx, companyID)
		if err != nil {
			return err
		}
		if owner != "" && owner == p.ID {
			return nil
		}
		return ErrNotOwner
	default:
		return ErrNotOwner
	}
}

// decide records the outcome. Storage failures that are not denials pass
// through unchanged and are not counted as decisions.
func (g *Guard) decide(err error) error {
	if err == nil {
		metrics.IncAuthzAllowed()
		return nil
	}
	if d, ok := err.(Denial); ok {
		metrics.IncAuthzDenied(string(d.Reason))
		return d
	}
	return err
}
