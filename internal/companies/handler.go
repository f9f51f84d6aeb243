package companies

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/credentials"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/storage/object"
)

const maxLogoSize = 5 << 20 // 5MB

// Handler wires HTTP handlers to the company service.
type Handler struct {
	Svc      *Service
	Verifier *credentials.Verifier
	Store    object.ObjectStore
}

func NewHandler(svc *Service, verifier *credentials.Verifier, store object.ObjectStore) *Handler {
	return &Handler{Svc: svc, Verifier: verifier, Store: store}
}

// RegisterPublicRoutes attaches the unauthenticated signup/login endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/company/signup", h.signup)
	rg.POST("/company/login", h.login)
}

// RegisterCompanyRoutes attaches the company self-service endpoints.
func (h *Handler) RegisterCompanyRoutes(rg *gin.RouterGroup) {
	rg.GET("/company/profile", h.profile)
	rg.PUT("/company/profile", h.updateProfile)
	rg.POST("/company/logo", h.uploadLogo)
}

// RegisterInstitutionRoutes attaches the institution roster-management endpoints.
func (h *Handler) RegisterInstitutionRoutes(rg *gin.RouterGroup) {
	rg.POST("/institution/companies/create", h.createForInstitution)
	rg.GET("/institution/companies", h.listForInstitution)
	rg.PUT("/institution/companies/:id/update", h.updateForInstitution)
	rg.DELETE("/institution/companies/:id/delete", h.deleteForInstitution)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	company, err := h.Svc.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			respond.Error(c, http.StatusConflict, "conflict", "email already registered", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "name, email and password are required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to sign up", nil)
		}
		return
	}

	token, err := auth.Issue("company", company.ID, company.Email)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"token": token, "company": toResponse(company)})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	companyID, err := h.Verifier.Verify(c.Request.Context(), credentials.KindCompany, req.Email, req.Password)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", nil)
		return
	}
	token, err := auth.Issue("company", companyID, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"token": token, "companyId": companyID})
}

func (h *Handler) profile(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	company, err := h.Svc.Get(c.Request.Context(), p, p.ID)
	if err != nil {
		h.respondError(c, err, false)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(company))
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	company, err := h.Svc.UpdateProfile(c.Request.Context(), p, p.ID, req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(company))
}

func (h *Handler) uploadLogo(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxLogoSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	storageKey, _, _, err := h.Store.Save(c.Request.Context(), p.ID, fileHeader.Filename, file)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store logo", nil)
		return
	}

	company, err := h.Svc.SetLogo(c.Request.Context(), p, p.ID, storageKey)
	if err != nil {
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(company))
}

func (h *Handler) createForInstitution(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	company, err := h.Svc.CreateUnderInstitution(c.Request.Context(), p, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			respond.Error(c, http.StatusConflict, "conflict", "email already registered", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "name, email and password are required", nil)
		default:
			h.respondError(c, err, true)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(company))
}

func (h *Handler) listForInstitution(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	list, err := h.Svc.ListForInstitution(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err, false)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, company := range list {
		out = append(out, toResponse(company))
	}
	respond.JSON(c, http.StatusOK, gin.H{"companies": out})
}

func (h *Handler) updateForInstitution(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	companyID := c.Param("id")
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	company, err := h.Svc.UpdateProfile(c.Request.Context(), p, companyID, req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(company))
}

func (h *Handler) deleteForInstitution(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	companyID := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), p, companyID); err != nil {
		if errors.Is(err, ErrHasPendingApplications) {
			respond.Error(c, http.StatusConflict, "conflict", "company has pending applications", nil)
			return
		}
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) respondError(c *gin.Context, err error, mutation bool) {
	if respond.Denied(c, err, mutation) {
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "company not found", nil)
	case errors.Is(err, ErrDuplicateEmail):
		respond.Error(c, http.StatusConflict, "conflict", "email already registered", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "operation failed", nil)
	}
}

func toResponse(company Company) gin.H {
	out := gin.H{
		"id":        company.ID,
		"name":      company.Name,
		"email":     company.Email,
		"createdAt": company.CreatedAt,
	}
	if company.LogoKey != "" {
		out["logoUrl"] = "/assets/" + company.LogoKey
	}
	if company.InstitutionID != "" {
		out["institutionId"] = company.InstitutionID
	}
	return out
}
