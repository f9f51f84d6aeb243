package seekers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

const maxResumeSize = 10 << 20 // 10MB

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the seeker profile endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/user/profile", h.profile)
	rg.PUT("/user/profile", h.updateProfile)
	rg.POST("/user/resume", h.uploadResume)
}

func (h *Handler) profile(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	seeker, err := h.Svc.Profile(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err, false)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(seeker))
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photoUrl"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	seeker, err := h.Svc.UpdateProfile(c.Request.Context(), p, ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Bio:      req.Bio,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(seeker))
}

func (h *Handler) uploadResume(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxResumeSize)

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

	seeker, err := h.Svc.UploadResume(c.Request.Context(), p, fileHeader.Filename, file)
	if err != nil {
		h.respondError(c, err, true)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(seeker))
}

func (h *Handler) respondError(c *gin.Context, err error, mutation bool) {
	if respond.Denied(c, err, mutation) {
		return
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "profile not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "operation failed", nil)
	}
}

func toResponse(seeker Seeker) gin.H {
	out := gin.H{
		"identity": seeker.Identity,
		"name":     seeker.Name,
		"email":    seeker.Email,
		"phone":    seeker.Phone,
		"location": seeker.Location,
		"bio":      seeker.Bio,
	}
	if seeker.PhotoURL != "" {
		out["photoUrl"] = seeker.PhotoURL
	}
	if seeker.ResumeLink != "" {
		out["resumeLink"] = seeker.ResumeLink
	}
	return out
}
