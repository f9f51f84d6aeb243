package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/companies"
	"jobboard-backend/internal/idp"
	"jobboard-backend/internal/institutions"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/seekers"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/storage/object"
)

const authRateGroup = "AUTH"

// RouterDeps carries the wired handlers the router registers.
type RouterDeps struct {
	Config              config.Config
	Store               object.ObjectStore
	CompaniesHandler    *companies.Handler
	InstitutionsHandler *institutions.Handler
	JobsHandler         *jobs.Handler
	ApplicationsHandler *applications.Handler
	SeekersHandler      *seekers.Handler
	GoogleAuth          *idp.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identify(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				authRateGroup: {Rate: 0.2, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				path := c.FullPath()
				if strings.HasSuffix(path, "/login") || strings.HasSuffix(path, "/signup") {
					return authRateGroup
				}
				return ""
			},
		}),
	)

	root := r.Group("")
	root.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	root.GET("/metrics", metrics.Handler())
	root.GET("/assets/*key", assetHandler(deps.Store))

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(root)
	}
	deps.CompaniesHandler.RegisterPublicRoutes(root)
	deps.CompaniesHandler.RegisterCompanyRoutes(root)
	deps.CompaniesHandler.RegisterInstitutionRoutes(root)
	deps.InstitutionsHandler.RegisterPublicRoutes(root)
	deps.InstitutionsHandler.RegisterInstitutionRoutes(root)
	deps.JobsHandler.RegisterPublicRoutes(root)
	deps.JobsHandler.RegisterCompanyRoutes(root)
	deps.JobsHandler.RegisterInstitutionRoutes(root)
	deps.ApplicationsHandler.RegisterSeekerRoutes(root)
	deps.ApplicationsHandler.RegisterCompanyRoutes(root)
	deps.ApplicationsHandler.RegisterInstitutionRoutes(root)
	deps.SeekersHandler.RegisterRoutes(root)

	return r
}

// assetHandler streams stored objects (logos, resumes) by storage key.
func assetHandler(store object.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		if key == "" || strings.Contains(key, "..") {
			respond.Error(c, http.StatusNotFound, "not_found", "asset not found", nil)
			return
		}
		rc, err := store.Open(c.Request.Context(), key)
		if err != nil {
			respond.Error(c, http.StatusNotFound, "not_found", "asset not found", nil)
			return
		}
		defer rc.Close()

		var sniff [512]byte
		n, readErr := io.ReadFull(rc, sniff[:])
		if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read asset", nil)
			return
		}

		c.Header("Content-Type", http.DetectContentType(sniff[:n]))
		c.Status(http.StatusOK)
		if n > 0 {
			if _, err := c.Writer.Write(sniff[:n]); err != nil {
				return
			}
		}
		_, _ = io.Copy(c.Writer, rc)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
