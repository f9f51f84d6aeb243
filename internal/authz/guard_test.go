package authz

import (
	"context"
	"errors"
	"testing"
)

// fakeGraph is an in-memory ownership graph for guard tests.
type fakeGraph struct {
	companyOwner map[string]string    // company -> institution ("" = unowned)
	jobOwner     map[string]string    // job -> company
	appRefs      map[string][2]string // application -> (job, applicant)
	calls        int
}

func (g *fakeGraph) CompanyInstitution(ctx context.Context, companyID string) (string, error) {
	g.calls++
	owner, ok := g.companyOwner[companyID]
	if !ok {
		return "", ErrNoSuchResource
	}
	return owner, nil
}

func (g *fakeGraph) JobCompany(ctx context.Context, jobID string) (string, error) {
	g.calls++
	company, ok := g.jobOwner[jobID]
	if !ok {
		return "", ErrNoSuchResource
	}
	return company, nil
}

func (g *fakeGraph) ApplicationRefs(ctx context.Context, applicationID string) (string, string, error) {
	g.calls++
	refs, ok := g.appRefs[applicationID]
	if !ok {
		return "", "", ErrNoSuchResource
	}
	return refs[0], refs[1], nil
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		companyOwner: map[string]string{
			"co-owned":  "inst-1",
			"co-free":   "",
			"co-other":  "inst-2",
			"co-rival":  "inst-1",
			"co-lonely": "",
		},
		jobOwner: map[string]string{
			"job-owned": "co-owned",
			"job-free":  "co-free",
			"job-other": "co-other",
		},
		appRefs: map[string][2]string{
			"app-1": {"job-owned", "seeker-1"},
			"app-2": {"job-free", "seeker-2"},
		},
	}
}

func TestCanManageJobOwnerChain(t *testing.T) {
	guard := NewGuard(newFakeGraph())
	ctx := context.Background()

	tests := []struct {
		name      string
		principal Principal
		jobID     string
		wantErr   error
	}{
		{"owning company", Principal{Kind: KindCompany, ID: "co-owned"}, "job-owned", nil},
		{"owning institution via two hops", Principal{Kind: KindInstitution, ID: "inst-1"}, "job-owned", nil},
		{"other company", Principal{Kind: KindCompany, ID: "co-other"}, "job-owned", ErrNotOwner},
		{"other institution", Principal{Kind: KindInstitution, ID: "inst-2"}, "job-owned", ErrNotOwner},
		{"institution over unowned company", Principal{Kind: KindInstitution, ID: "inst-1"}, "job-free", ErrNotOwner},
		{"seeker", Principal{Kind: KindSeeker, ID: "seeker-1"}, "job-owned", ErrNotOwner},
		{"anonymous", Anonymous, "job-owned", ErrUnauthenticated},
		{"missing job", Principal{Kind: KindCompany, ID: "co-owned"}, "job-gone", ErrNoSuchResource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.CanManageJob(ctx, tt.principal, tt.jobID)
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Fatalf("CanManageJob = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanManageCompany(t *testing.T) {
	guard := NewGuard(newFakeGraph())
	ctx := context.Background()

	if err := guard.CanManageCompany(ctx, Principal{Kind: KindCompany, ID: "co-free"}, "co-free"); err != nil {
		t.Fatalf("company managing itself: %v", err)
	}
	if err := guard.CanManageCompany(ctx, Principal{Kind: KindInstitution, ID: "inst-1"}, "co-owned"); err != nil {
		t.Fatalf("owning institution: %v", err)
	}
	err := guard.CanManageCompany(ctx, Principal{Kind: KindInstitution, ID: "inst-2"}, "co-owned")
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("foreign institution = %v, want ErrNotOwner", err)
	}
	err = guard.CanManageCompany(ctx, Principal{Kind: KindCompany, ID: "co-free"}, "co-owned")
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("foreign company = %v, want ErrNotOwner", err)
	}
}

func TestCanCreateDecisions(t *testing.T) {
	guard := NewGuard(newFakeGraph())
	ctx := context.Background()

	if err := guard.CanCreateCompany(ctx, Principal{Kind: KindInstitution, ID: "inst-1"}); err != nil {
		t.Fatalf("institution creating company: %v", err)
	}
	if err := guard.CanCreateCompany(ctx, Principal{Kind: KindCompany, ID: "co-free"}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("company creating company = %v, want ErrNotOwner", err)
	}
	if err := guard.CanCreateJob(ctx, Principal{Kind: KindCompany, ID: "co-free"}); err != nil {
		t.Fatalf("company creating job: %v", err)
	}
	if err := guard.CanCreateJob(ctx, Principal{Kind: KindSeeker, ID: "seeker-1"}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("seeker creating job = %v, want ErrNotOwner", err)
	}
	if err := guard.CanCreateApplication(ctx, Principal{Kind: KindSeeker, ID: "seeker-1"}, "job-free"); err != nil {
		t.Fatalf("seeker applying: %v", err)
	}
	if err := guard.CanCreateApplication(ctx, Principal{Kind: KindSeeker, ID: "seeker-1"}, "job-gone"); !errors.Is(err, ErrNoSuchResource) {
		t.Fatalf("applying to missing job = %v, want ErrNoSuchResource", err)
	}
	if err := guard.CanCreateApplication(ctx, Anonymous, "job-free"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous applying = %v, want ErrUnauthenticated", err)
	}
}

func TestApplicationDecisions(t *testing.T) {
	guard := NewGuard(newFakeGraph())
	ctx := context.Background()

	if err := guard.CanManageApplication(ctx, Principal{Kind: KindCompany, ID: "co-owned"}, "app-1"); err != nil {
		t.Fatalf("owning company managing application: %v", err)
	}
	if err := guard.CanManageApplication(ctx, Principal{Kind: KindInstitution, ID: "inst-1"}, "app-1"); err != nil {
		t.Fatalf("owning institution managing application: %v", err)
	}
	if err := guard.CanManageApplication(ctx, Principal{Kind: KindCompany, ID: "co-free"}, "app-1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("foreign company = %v, want ErrNotOwner", err)
	}
	if err := guard.CanReadOwnApplication(ctx, Principal{Kind: KindSeeker, ID: "seeker-1"}, "app-1"); err != nil {
		t.Fatalf("seeker reading own application: %v", err)
	}
	if err := guard.CanReadOwnApplication(ctx, Principal{Kind: KindSeeker, ID: "seeker-2"}, "app-1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("other seeker = %v, want ErrNotOwner", err)
	}
	if err := guard.CanReadOwnApplication(ctx, Principal{Kind: KindSeeker, ID: "seeker-1"}, "app-gone"); !errors.Is(err, ErrNoSuchResource) {
		t.Fatalf("missing application = %v, want ErrNoSuchResource", err)
	}
}

func TestForRequestMemoizesLookups(t *testing.T) {
	base := newFakeGraph()
	guard := NewGuard(base).ForRequest()
	ctx := context.Background()
	p := Principal{Kind: KindInstitution, ID: "inst-1"}

	if err := guard.CanManageJob(ctx, p, "job-owned"); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	first := base.calls
	if err := guard.CanManageJob(ctx, p, "job-owned"); err != nil {
		t.Fatalf("second decision: %v", err)
	}
	if base.calls != first {
		t.Fatalf("expected memoized lookups, base graph calls went %d -> %d", first, base.calls)
	}

	// A fresh request-scoped guard starts cold.
	if err := NewGuard(base).ForRequest().CanManageJob(ctx, p, "job-owned"); err != nil {
		t.Fatalf("fresh guard decision: %v", err)
	}
	if base.calls == first {
		t.Fatal("expected fresh guard to hit the base graph")
	}
}

func TestDenialReasons(t *testing.T) {
	if ErrUnauthenticated.Reason != ReasonUnauthenticated {
		t.Fatal("unexpected reason on ErrUnauthenticated")
	}
	var err error = Denial{Reason: ReasonNotOwner}
	var denial Denial
	if !errors.As(err, &denial) || denial.Reason != ReasonNotOwner {
		t.Fatal("Denial should round-trip through errors.As")
	}
}
