package institutions

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
	rg.POST("/institution/signup", h.signup)
	rg.POST("/institution/login", h.login)
}

// RegisterInstitutionRoutes attaches the institution self-service endpoints.
func (h *Handler) RegisterInstitutionRoutes(rg *gin.RouterGroup) {
	rg.GET("/institution/profile", h.profile)
	rg.PUT("/institution/profile", h.updateProfile)
	rg.POST("/institution/logo", h.uploadLogo)
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
	institution, err := h.Svc.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
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

	token, err := auth.Issue("institution", institution.ID, institution.Email)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"token": token, "institution": toResponse(institution)})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	institutionID, err := h.Verifier.Verify(c.Request.Context(), credentials.KindInstitution, req.Email, req.Password)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", nil)
		return
	}
	token, err := auth.Issue("institution", institutionID, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"token": token, "institutionId": institutionID})
}

func (h *Handler) profile(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	institution, err := h.Svc.Get(c.Request.Context(), p, p.ID)
	if err != nil {
		h.respondError(c, err, false)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(institution))
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	Password string `json:"password"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	institution, err := h.Svc.UpdateProfile(c.Request.Context(), p, p.ID, ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		Phone:    req.Phone,
		Website:  req.Website,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(institution))
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

	institution, err := h.Svc.SetLogo(c.Request.Context(), p, p.ID, storageKey)
	if err != nil {
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(institution))
}

func (h *Handler) respondError(c *gin.Context, err error, mutation bool) {
	if respond.Denied(c, err, mutation) {
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "institution not found", nil)
	case errors.Is(err, ErrDuplicateEmail):
		respond.Error(c, http.StatusConflict, "conflict", "email already registered", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "operation failed", nil)
	}
}

func toResponse(institution Institution) gin.H {
	out := gin.H{
		"id":        institution.ID,
		"name":      institution.Name,
		"email":     institution.Email,
		"createdAt": institution.CreatedAt,
	}
	if institution.LogoKey != "" {
		out["logoUrl"] = "/assets/" + institution.LogoKey
	}
	if institution.Address != "" {
		out["address"] = institution.Address
	}
	if institution.Phone != "" {
		out["phone"] = institution.Phone
	}
	if institution.Website != "" {
		out["website"] = institution.Website
	}
	return out
}
