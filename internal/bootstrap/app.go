package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/companies"
	"jobboard-backend/internal/credentials"
	"jobboard-backend/internal/idp"
	"jobboard-backend/internal/institutions"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/seekers"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/server"
	"jobboard-backend/internal/shared/storage/db"
	"jobboard-backend/internal/shared/storage/object"
	localstore "jobboard-backend/internal/shared/storage/object/local"
	s3store "jobboard-backend/internal/shared/storage/object/s3"
)

// App holds the wired application dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	Guard    *authz.Guard
	Verifier *credentials.Verifier

	CompaniesRepo    companies.Repo
	InstitutionsRepo institutions.Repo
	JobsRepo         jobs.Repo
	ApplicationsRepo applications.Repo
	SeekersRepo      seekers.Repo

	CompaniesService    *companies.Service
	InstitutionsService *institutions.Service
	JobsService         *jobs.Service
	ApplicationsService *applications.Service
	SeekersService      *seekers.Service

	CompaniesHandler    *companies.Handler
	InstitutionsHandler *institutions.Handler
	JobsHandler         *jobs.Handler
	ApplicationsHandler *applications.Handler
	SeekersHandler      *seekers.Handler
	GoogleAuth          *idp.GoogleService
}

// Build prepares dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		Store:               app.Store,
		CompaniesHandler:    app.CompaniesHandler,
		InstitutionsHandler: app.InstitutionsHandler,
		JobsHandler:         app.JobsHandler,
		ApplicationsHandler: app.ApplicationsHandler,
		SeekersHandler:      app.SeekersHandler,
		GoogleAuth:          app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.CompaniesRepo = &companies.PGRepo{DB: app.DB}
		app.InstitutionsRepo = &institutions.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.ApplicationsRepo = &applications.PGRepo{DB: app.DB}
		app.SeekersRepo = &seekers.PGRepo{DB: app.DB}
	} else {
		app.CompaniesRepo = companies.NewMemoryRepo()
		app.InstitutionsRepo = institutions.NewMemoryRepo()
		app.JobsRepo = jobs.NewMemoryRepo()
		app.ApplicationsRepo = applications.NewMemoryRepo()
		app.SeekersRepo = seekers.NewMemoryRepo()
	}

	app.Guard = authz.NewGuard(ownershipGraph{
		companies:    app.CompaniesRepo,
		jobs:         app.JobsRepo,
		applications: app.ApplicationsRepo,
	})

	app.SeekersService = seekers.NewService(app.SeekersRepo, app.Store)
	app.CompaniesService = companies.NewService(app.CompaniesRepo, app.Guard, pendingCounter{
		jobs:         app.JobsRepo,
		applications: app.ApplicationsRepo,
	})
	app.InstitutionsService = institutions.NewService(app.InstitutionsRepo)
	app.JobsService = jobs.NewService(app.JobsRepo, app.Guard,
		companySource{companies: app.CompaniesRepo},
		applicationCounter{applications: app.ApplicationsRepo},
	)
	app.ApplicationsService = applications.NewService(app.ApplicationsRepo, app.Guard,
		jobSource{jobs: app.JobsRepo, companies: app.CompaniesRepo},
		applicantSource{seekers: app.SeekersService},
	)

	app.Verifier = credentials.NewVerifier()
	app.Verifier.Register(credentials.KindCompany, app.CompaniesService)
	app.Verifier.Register(credentials.KindInstitution, app.InstitutionsService)

	app.GoogleAuth = idp.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.SeekersService,
	)

	app.CompaniesHandler = companies.NewHandler(app.CompaniesService, app.Verifier, app.Store)
	app.InstitutionsHandler = institutions.NewHandler(app.InstitutionsService, app.Verifier, app.Store)
	app.JobsHandler = jobs.NewHandler(app.JobsService)
	app.ApplicationsHandler = applications.NewHandler(app.ApplicationsService)
	app.SeekersHandler = seekers.NewHandler(app.SeekersService)
}

// ownershipGraph adapts the feature stores to the authorization graph,
// mapping missing rows onto the guard's no-such-resource denial.
type ownershipGraph struct {
	companies    companies.Repo
	jobs         jobs.Repo
	applications applications.Repo
}

func (g ownershipGraph) CompanyInstitution(ctx context.Context, companyID string) (string, error) {
	institutionID, err := g.companies.InstitutionID(ctx, companyID)
	if err != nil {
		if errors.Is(err, companies.ErrNotFound) {
			return "", authz.ErrNoSuchResource
		}
		return "", err
	}
	return institutionID, nil
}

func (g ownershipGraph) JobCompany(ctx context.Context, jobID string) (string, error) {
	companyID, err := g.jobs.CompanyID(ctx, jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return "", authz.ErrNoSuchResource
		}
		return "", err
	}
	return companyID, nil
}

func (g ownershipGraph) ApplicationRefs(ctx context.Context, applicationID string) (string, string, error) {
	jobID, applicant, err := g.applications.Refs(ctx, applicationID)
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			return "", "", authz.ErrNoSuchResource
		}
		return "", "", err
	}
	return jobID, applicant, nil
}

// pendingCounter spans the jobs and applications stores so both the
// Postgres and in-memory backends answer it the same way.
type pendingCounter struct {
	jobs         jobs.Repo
	applications applications.Repo
}

func (p pendingCounter) CountPendingByCompany(ctx context.Context, companyID string) (int, error) {
	list, err := p.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(list))
	for _, job := range list {
		ids = append(ids, job.ID)
	}
	return p.applications.CountPendingByJobIDs(ctx, ids)
}

type companySource struct {
	companies companies.Repo
}

func (s companySource) Info(ctx context.Context, companyID string) (jobs.CompanyInfo, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return jobs.CompanyInfo{}, err
	}
	return jobs.CompanyInfo{ID: company.ID, Name: company.Name, LogoKey: company.LogoKey}, nil
}

func (s companySource) IDsByInstitution(ctx context.Context, institutionID string) ([]string, error) {
	list, err := s.companies.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, company := range list {
		ids = append(ids, company.ID)
	}
	return ids, nil
}

type applicationCounter struct {
	applications applications.Repo
}

func (a applicationCounter) CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int, error) {
	return a.applications.CountByJobIDs(ctx, jobIDs)
}

type jobSource struct {
	jobs      jobs.Repo
	companies companies.Repo
}

func (s jobSource) Info(ctx context.Context, jobID string) (applications.JobInfo, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return applications.JobInfo{}, err
	}
	info := applications.JobInfo{
		ID:        job.ID,
		Title:     job.Title,
		Location:  job.Location,
		Category:  job.Category,
		CompanyID: job.CompanyID,
	}
	if company, err := s.companies.GetByID(ctx, job.CompanyID); err == nil {
		info.CompanyName = company.Name
	}
	return info, nil
}

func (s jobSource) IDsByCompany(ctx context.Context, companyID string) ([]string, error) {
	list, err := s.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, job := range list {
		ids = append(ids, job.ID)
	}
	return ids, nil
}

func (s jobSource) IDsByInstitution(ctx context.Context, institutionID string) ([]string, error) {
	companyList, err := s.companies.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	companyIDs := make([]string, 0, len(companyList))
	for _, company := range companyList {
		companyIDs = append(companyIDs, company.ID)
	}
	jobList, err := s.jobs.ListByCompanyIDs(ctx, companyIDs)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(jobList))
	for _, job := range jobList {
		ids = append(ids, job.ID)
	}
	return ids, nil
}

type applicantSource struct {
	seekers *seekers.Service
}

func (s applicantSource) Info(ctx context.Context, identity string) (applications.ApplicantInfo, error) {
	seeker, err := s.seekers.Info(ctx, identity)
	if err != nil {
		return applications.ApplicantInfo{}, err
	}
	return applications.ApplicantInfo{
		Identity:   seeker.Identity,
		Name:       seeker.Name,
		Email:      seeker.Email,
		PhotoURL:   seeker.PhotoURL,
		ResumeLink: seeker.ResumeLink,
	}, nil
}
