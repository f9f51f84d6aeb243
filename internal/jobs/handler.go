package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the public browse/search endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.search)
	rg.GET("/jobs/:id", h.get)
	rg.GET("/categories", h.categories)
	rg.GET("/locations", h.locations)
}

// RegisterCompanyRoutes attaches the company posting/management endpoints.
func (h *Handler) RegisterCompanyRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.DELETE("/jobs/:id", h.delete)
	rg.GET("/company/jobs", h.listForCompany)
	rg.PATCH("/company/jobs/:id/visibility", h.setVisibility)
}

// RegisterInstitutionRoutes attaches the institution oversight endpoints.
func (h *Handler) RegisterInstitutionRoutes(rg *gin.RouterGroup) {
	rg.GET("/institution/jobs", h.listForInstitution)
	rg.PATCH("/institution/jobs/:id/visibility", h.setVisibility)
	rg.DELETE("/institution/jobs/:id", h.delete)
}

func (h *Handler) search(c *gin.Context) {
	filter := Filter{
		Title:    c.Query("title"),
		Location: c.Query("location"),
		Category: c.Query("category"),
	}
	list, err := h.Svc.Search(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list jobs", nil)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, job := range list {
		out = append(out, h.toResponse(c, job, 0, false))
	}
	respond.JSON(c, http.StatusOK, gin.H{"jobs": out})
}

func (h *Handler) get(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	job, err := h.Svc.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, false)
		return
	}
	respond.JSON(c, http.StatusOK, h.toResponse(c, job, 0, false))
}

func (h *Handler) categories(c *gin.Context) {
	values, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list categories", nil)
		return
	}
	if values == nil {
		values = []string{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"categories": values})
}

func (h *Handler) locations(c *gin.Context) {
	values, err := h.Svc.Locations(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list locations", nil)
		return
	}
	if values == nil {
		values = []string{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"locations": values})
}

type createJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Level       string `json:"level"`
	Salary      int64  `json:"salary"`
}

func (h *Handler) create(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), p, NewJobInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Level:       req.Level,
		Salary:      req.Salary,
	})
	if err != nil {
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusCreated, h.toResponse(c, job, 0, true))
}

func (h *Handler) delete(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

func (h *Handler) setVisibility(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Visible == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "visible is required", nil)
		return
	}
	job, err := h.Svc.SetVisibility(c.Request.Context(), p, c.Param("id"), *req.Visible)
	if err != nil {
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, h.toResponse(c, job, 0, true))
}

func (h *Handler) listForCompany(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	list, err := h.Svc.ListForCompany(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err, false)
		return
	}
	h.respondOwnerList(c, list)
}

func (h *Handler) listForInstitution(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	list, err := h.Svc.ListForInstitution(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err, false)
		return
	}
	h.respondOwnerList(c, list)
}

func (h *Handler) respondOwnerList(c *gin.Context, list []Job) {
	counts := h.Svc.ApplicationCounts(c.Request.Context(), list)
	out := make([]gin.H, 0, len(list))
	for _, job := range list {
		out = append(out, h.toResponse(c, job, counts[job.ID], true))
	}
	respond.JSON(c, http.StatusOK, gin.H{"jobs": out})
}

func (h *Handler) respondError(c *gin.Context, err error, mutation bool) {
	if respond.Denied(c, err, mutation) {
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "title, a valid level and a non-negative salary are required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "operation failed", nil)
	}
}

func (h *Handler) toResponse(c *gin.Context, job Job, applicants int, owner bool) gin.H {
	company := h.Svc.CompanyInfoFor(c.Request.Context(), job.CompanyID)
	companyOut := gin.H{"id": company.ID, "name": company.Name}
	if company.LogoKey != "" {
		companyOut["logoUrl"] = "/assets/" + company.LogoKey
	}
	out := gin.H{
		"id":          job.ID,
		"title":       job.Title,
		"description": job.Description,
		"category":    job.Category,
		"location":    job.Location,
		"level":       job.Level,
		"salary":      job.Salary,
		"company":     companyOut,
		"createdAt":   job.CreatedAt,
	}
	if owner {
		out["visible"] = job.Visible
		out["applicants"] = applicants
	}
	return out
}
