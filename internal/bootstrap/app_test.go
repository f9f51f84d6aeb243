package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/bootstrap"
	"jobboard-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "e2e-test-secret")
	t.Setenv("ENV", "dev")

	app, err := bootstrap.Build(config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		CORSAllowOrigin: []string{"http://localhost:5173"},
	})
	if err != nil {
		t.Fatalf("bootstrap.Build: %v", err)
	}
	return app
}

type testRequest struct {
	method    string
	path      string
	token     string
	applicant string
	body      any
}

func do(t *testing.T, router *gin.Engine, req testRequest) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.method, req.path, reader)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	if req.applicant != "" {
		httpReq.Header.Set("X-Applicant-Id", req.applicant)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httpReq)

	var payload map[string]any
	if len(rec.Body.Bytes()) > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	}
	return rec, payload
}

func signupInstitution(t *testing.T, router *gin.Engine, name, email string) string {
	t.Helper()
	rec, payload := do(t, router, testRequest{
		method: http.MethodPost, path: "/institution/signup",
		body: map[string]string{"name": name, "email": email, "password": "pw-institution"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("institution signup = %d: %s", rec.Code, rec.Body.String())
	}
	return payload["token"].(string)
}

func signupCompany(t *testing.T, router *gin.Engine, name, email string) string {
	t.Helper()
	rec, payload := do(t, router, testRequest{
		method: http.MethodPost, path: "/company/signup",
		body: map[string]string{"name": name, "email": email, "password": "pw-company"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("company signup = %d: %s", rec.Code, rec.Body.String())
	}
	return payload["token"].(string)
}

func postJob(t *testing.T, router *gin.Engine, token, title string) string {
	t.Helper()
	rec, payload := do(t, router, testRequest{
		method: http.MethodPost, path: "/jobs", token: token,
		body: map[string]any{
			"title":    title,
			"level":    "Beginner Level",
			"salary":   50000,
			"location": "Remote",
			"category": "Engineering",
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("post job = %d: %s", rec.Code, rec.Body.String())
	}
	return payload["id"].(string)
}

// Institution creates a company, the company posts a job, a seeker applies,
// the institution accepts, and all three principals read back Accepted.
func TestHiringFlowAcrossAllPrincipals(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	instToken := signupInstitution(t, router, "State University", "admin@stateu.test")

	rec, payload := do(t, router, testRequest{
		method: http.MethodPost, path: "/institution/companies/create", token: instToken,
		body: map[string]string{"name": "Campus Labs", "email": "jobs@campuslabs.test", "password": "pw-roster"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create roster company = %d: %s", rec.Code, rec.Body.String())
	}
	companyID := payload["id"].(string)

	rec, payload = do(t, router, testRequest{
		method: http.MethodPost, path: "/company/login",
		body: map[string]string{"email": "jobs@campuslabs.test", "password": "pw-roster"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("roster company login = %d: %s", rec.Code, rec.Body.String())
	}
	companyToken := payload["token"].(string)
	if payload["companyId"].(string) != companyID {
		t.Fatalf("login companyId = %v, want %s", payload["companyId"], companyID)
	}

	jobID := postJob(t, router, companyToken, "Junior Backend Engineer")

	// Seekers browse without auth.
	rec, payload = do(t, router, testRequest{method: http.MethodGet, path: "/jobs"})
	if rec.Code != http.StatusOK {
		t.Fatalf("public jobs = %d", rec.Code)
	}
	if got := len(payload["jobs"].([]any)); got != 1 {
		t.Fatalf("public jobs count = %d, want 1", got)
	}

	rec, payload = do(t, router, testRequest{
		method: http.MethodPost, path: "/applications", applicant: "google:seeker-1",
		body: map[string]string{"jobId": jobID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("apply = %d: %s", rec.Code, rec.Body.String())
	}
	appID := payload["id"].(string)
	if payload["status"].(string) != "Pending" {
		t.Fatalf("new application status = %v, want Pending", payload["status"])
	}

	rec, payload = do(t, router, testRequest{
		method: http.MethodGet, path: "/institution/applications", token: instToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("institution applications = %d: %s", rec.Code, rec.Body.String())
	}
	if got := len(payload["applications"].([]any)); got != 1 {
		t.Fatalf("institution application count = %d, want 1", got)
	}

	rec, _ = do(t, router, testRequest{
		method: http.MethodPut, path: "/institution/applications/" + appID + "/status", token: instToken,
		body: map[string]string{"status": "Accepted"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("institution accept = %d: %s", rec.Code, rec.Body.String())
	}

	// All three principals observe the accepted state.
	rec, payload = do(t, router, testRequest{method: http.MethodGet, path: "/applications", applicant: "google:seeker-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("seeker applications = %d", rec.Code)
	}
	seekerApp := payload["applications"].([]any)[0].(map[string]any)
	if seekerApp["status"].(string) != "Accepted" {
		t.Fatalf("seeker sees status %v, want Accepted", seekerApp["status"])
	}

	rec, payload = do(t, router, testRequest{method: http.MethodGet, path: "/company/applications", token: companyToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("company applications = %d", rec.Code)
	}
	companyApp := payload["applications"].([]any)[0].(map[string]any)
	if companyApp["status"].(string) != "Accepted" {
		t.Fatalf("company sees status %v, want Accepted", companyApp["status"])
	}

	rec, payload = do(t, router, testRequest{method: http.MethodGet, path: "/institution/applications", token: instToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("institution applications = %d", rec.Code)
	}
	instApp := payload["applications"].([]any)[0].(map[string]any)
	if instApp["status"].(string) != "Accepted" {
		t.Fatalf("institution sees status %v, want Accepted", instApp["status"])
	}
}

func TestDuplicateApplicationConflict(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	companyToken := signupCompany(t, router, "Acme", "hr@acme.test")
	jobID := postJob(t, router, companyToken, "Data Analyst")

	rec, first := do(t, router, testRequest{
		method: http.MethodPost, path: "/applications", applicant: "google:seeker-dup",
		body: map[string]string{"jobId": jobID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("first apply = %d", rec.Code)
	}

	rec, _ = do(t, router, testRequest{
		method: http.MethodPost, path: "/applications", applicant: "google:seeker-dup",
		body: map[string]string{"jobId": jobID},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second apply = %d, want 409", rec.Code)
	}

	// First application is unchanged.
	rec, payload := do(t, router, testRequest{method: http.MethodGet, path: "/applications", applicant: "google:seeker-dup"})
	if rec.Code != http.StatusOK {
		t.Fatalf("list applications = %d", rec.Code)
	}
	list := payload["applications"].([]any)
	if len(list) != 1 {
		t.Fatalf("application count after duplicate = %d, want 1", len(list))
	}
	got := list[0].(map[string]any)
	if got["id"].(string) != first["id"].(string) || got["status"].(string) != "Pending" {
		t.Fatalf("surviving application = %+v, want original Pending", got)
	}
}

func TestHiddenJobsVisibility(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	companyToken := signupCompany(t, router, "Globex", "hr@globex.test")
	jobID := postJob(t, router, companyToken, "Night Shift Operator")

	rec, _ := do(t, router, testRequest{
		method: http.MethodPatch, path: "/company/jobs/" + jobID + "/visibility", token: companyToken,
		body: map[string]any{"visible": false},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("hide job = %d: %s", rec.Code, rec.Body.String())
	}

	// Gone from the public listing and detail.
	rec, payload := do(t, router, testRequest{method: http.MethodGet, path: "/jobs"})
	if rec.Code != http.StatusOK {
		t.Fatalf("public jobs = %d", rec.Code)
	}
	if got := len(payload["jobs"].([]any)); got != 0 {
		t.Fatalf("public jobs count = %d, want 0", got)
	}
	rec, _ = do(t, router, testRequest{method: http.MethodGet, path: "/jobs/" + jobID})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("public hidden job detail = %d, want 404", rec.Code)
	}

	// Still present for the owner, flagged hidden.
	rec, payload = do(t, router, testRequest{method: http.MethodGet, path: "/company/jobs", token: companyToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner jobs = %d", rec.Code)
	}
	ownerJobs := payload["jobs"].([]any)
	if len(ownerJobs) != 1 {
		t.Fatalf("owner jobs count = %d, want 1", len(ownerJobs))
	}
	if visible := ownerJobs[0].(map[string]any)["visible"].(bool); visible {
		t.Fatal("owner listing should show the job as hidden")
	}

	// And readable by the owner via the detail endpoint.
	rec, _ = do(t, router, testRequest{method: http.MethodGet, path: "/jobs/" + jobID, token: companyToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner hidden job detail = %d, want 200", rec.Code)
	}
}

func TestCrossCompanyJobMutationForbidden(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	ownerToken := signupCompany(t, router, "Initech", "hr@initech.test")
	rivalToken := signupCompany(t, router, "Hooli", "hr@hooli.test")
	jobID := postJob(t, router, ownerToken, "TPS Report Auditor")

	rec, _ := do(t, router, testRequest{
		method: http.MethodDelete, path: "/jobs/" + jobID, token: rivalToken,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("rival delete = %d, want 403", rec.Code)
	}

	rec, _ = do(t, router, testRequest{
		method: http.MethodPatch, path: "/company/jobs/" + jobID + "/visibility", token: rivalToken,
		body: map[string]any{"visible": false},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("rival visibility toggle = %d, want 403", rec.Code)
	}

	// The owner still can.
	rec, _ = do(t, router, testRequest{method: http.MethodDelete, path: "/jobs/" + jobID, token: ownerToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInstitutionScopedToOwnRoster(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	instToken := signupInstitution(t, router, "Tech College", "admin@techcollege.test")
	otherInstToken := signupInstitution(t, router, "Rival College", "admin@rival.test")

	rec, payload := do(t, router, testRequest{
		method: http.MethodPost, path: "/institution/companies/create", token: instToken,
		body: map[string]string{"name": "Roster Co", "email": "jobs@rosterco.test", "password": "pw-roster"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create roster company = %d", rec.Code)
	}
	companyID := payload["id"].(string)

	// The other institution cannot touch the company.
	rec, _ = do(t, router, testRequest{
		method: http.MethodPut, path: "/institution/companies/" + companyID + "/update", token: otherInstToken,
		body: map[string]string{"name": "Hijacked"},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign institution update = %d, want 403", rec.Code)
	}
	rec, payload = do(t, router, testRequest{
		method: http.MethodGet, path: "/institution/companies", token: otherInstToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("foreign institution roster = %d", rec.Code)
	}
	if got := len(payload["companies"].([]any)); got != 0 {
		t.Fatalf("foreign roster size = %d, want 0", got)
	}

	// Seekers cannot reach institution endpoints at all.
	rec, _ = do(t, router, testRequest{
		method: http.MethodGet, path: "/institution/companies", applicant: "google:seeker-x",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("seeker reading roster = %d, want 404", rec.Code)
	}
}

func TestCompanyDeleteRefusedWhilePendingApplications(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	instToken := signupInstitution(t, router, "Delete U", "admin@deleteu.test")
	rec, payload := do(t, router, testRequest{
		method: http.MethodPost, path: "/institution/companies/create", token: instToken,
		body: map[string]string{"name": "Doomed Co", "email": "jobs@doomed.test", "password": "pw-doomed"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create company = %d", rec.Code)
	}
	companyID := payload["id"].(string)

	rec, payload = do(t, router, testRequest{
		method: http.MethodPost, path: "/company/login",
		body: map[string]string{"email": "jobs@doomed.test", "password": "pw-doomed"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("company login = %d", rec.Code)
	}
	companyToken := payload["token"].(string)
	jobID := postJob(t, router, companyToken, "Short-Lived Role")

	rec, payload = do(t, router, testRequest{
		method: http.MethodPost, path: "/applications", applicant: "google:seeker-pending",
		body: map[string]string{"jobId": jobID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("apply = %d", rec.Code)
	}
	appID := payload["id"].(string)

	rec, _ = do(t, router, testRequest{
		method: http.MethodDelete, path: "/institution/companies/" + companyID + "/delete", token: instToken,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("delete with pending application = %d, want 409", rec.Code)
	}

	rec, _ = do(t, router, testRequest{
		method: http.MethodPut, path: "/institution/applications/" + appID + "/status", token: instToken,
		body: map[string]string{"status": "Rejected"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reject application = %d", rec.Code)
	}

	rec, _ = do(t, router, testRequest{
		method: http.MethodDelete, path: "/institution/companies/" + companyID + "/delete", token: instToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("delete after resolution = %d, want 200", rec.Code)
	}
}

func TestDuplicateSignupEmailConflict(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	signupCompany(t, router, "First Co", "same@company.test")
	rec, _ := do(t, router, testRequest{
		method: http.MethodPost, path: "/company/signup",
		body: map[string]string{"name": "Second Co", "email": "same@company.test", "password": "pw"},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d, want 409", rec.Code)
	}
}

func TestAnonymousAndExpiredAccess(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	rec, _ := do(t, router, testRequest{method: http.MethodGet, path: "/company/profile"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous profile read = %d, want 401", rec.Code)
	}

	rec, _ = do(t, router, testRequest{
		method: http.MethodPost, path: "/jobs",
		body: map[string]any{"title": "Nope", "level": "Beginner Level", "salary": 1},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous job post = %d, want 401", rec.Code)
	}

	rec, _ = do(t, router, testRequest{
		method: http.MethodGet, path: "/company/profile", token: "not.a.token",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token = %d, want 401", rec.Code)
	}

	rec, _ = do(t, router, testRequest{method: http.MethodGet, path: "/health"})
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
}
