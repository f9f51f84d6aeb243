package applications

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

// RegisterSeekerRoutes attaches the applicant-facing endpoints.
func (h *Handler) RegisterSeekerRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.apply)
	rg.GET("/applications", h.listForApplicant)
}

// RegisterCompanyRoutes attaches the company review endpoints.
func (h *Handler) RegisterCompanyRoutes(rg *gin.RouterGroup) {
	rg.GET("/company/applications", h.listForCompany)
	rg.PUT("/company/applications/:id/status", h.updateStatus)
}

// RegisterInstitutionRoutes attaches the institution oversight endpoints.
func (h *Handler) RegisterInstitutionRoutes(rg *gin.RouterGroup) {
	rg.GET("/institution/applications", h.listForInstitution)
	rg.PUT("/institution/applications/:id/status", h.updateStatus)
}

type applyRequest struct {
	JobID string `json:"jobId"`
}

func (h *Handler) apply(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.JobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobId is required", nil)
		return
	}
	application, err := h.Svc.Apply(c.Request.Context(), p, req.JobID)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			respond.Error(c, http.StatusConflict, "conflict", "already applied to this job", nil)
			return
		}
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusCreated, h.toSeekerResponse(c, application))
}

func (h *Handler) listForApplicant(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	list, err := h.Svc.ListForApplicant(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err, false)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, application := range list {
		out = append(out, h.toSeekerResponse(c, application))
	}
	respond.JSON(c, http.StatusOK, gin.H{"applications": out})
}

func (h *Handler) listForCompany(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	list, err := h.Svc.ListForCompany(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err, false)
		return
	}
	h.respondReviewList(c, list)
}

func (h *Handler) listForInstitution(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	list, err := h.Svc.ListForInstitution(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err, false)
		return
	}
	h.respondReviewList(c, list)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	application, err := h.Svc.UpdateStatus(c.Request.Context(), p, c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "status must be Pending, Accepted or Rejected", nil)
			return
		}
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, h.toReviewResponse(c, application))
}

func (h *Handler) respondReviewList(c *gin.Context, list []Application) {
	out := make([]gin.H, 0, len(list))
	for _, application := range list {
		out = append(out, h.toReviewResponse(c, application))
	}
	respond.JSON(c, http.StatusOK, gin.H{"applications": out})
}

func (h *Handler) respondError(c *gin.Context, err error, mutation bool) {
	if respond.Denied(c, err, mutation) {
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "operation failed", nil)
	}
}

func (h *Handler) toSeekerResponse(c *gin.Context, application Application) gin.H {
	job := h.Svc.JobInfoFor(c.Request.Context(), application.JobID)
	return gin.H{
		"id":        application.ID,
		"status":    application.Status,
		"appliedAt": application.AppliedAt,
		"job": gin.H{
			"id":       job.ID,
			"title":    job.Title,
			"location": job.Location,
			"category": job.Category,
			"company":  gin.H{"id": job.CompanyID, "name": job.CompanyName},
		},
	}
}

func (h *Handler) toReviewResponse(c *gin.Context, application Application) gin.H {
	job := h.Svc.JobInfoFor(c.Request.Context(), application.JobID)
	applicant := h.Svc.ApplicantInfoFor(c.Request.Context(), application.ApplicantIdentity)
	out := gin.H{
		"id":        application.ID,
		"status":    application.Status,
		"appliedAt": application.AppliedAt,
		"job": gin.H{
			"id":       job.ID,
			"title":    job.Title,
			"location": job.Location,
			"company":  gin.H{"id": job.CompanyID, "name": job.CompanyName},
		},
		"applicant": gin.H{
			"identity": applicant.Identity,
			"name":     applicant.Name,
			"email":    applicant.Email,
		},
	}
	if applicant.ResumeLink != "" {
		out["applicant"].(gin.H)["resumeLink"] = applicant.ResumeLink
	}
	if applicant.PhotoURL != "" {
		out["applicant"].(gin.H)["photoUrl"] = applicant.PhotoURL
	}
	return out
}
