package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/respond"
)

const (
	principalKindKey  = "principalKind"
	principalIDKey    = "principalId"
	principalEmailKey = "principalEmail"

	// ApplicantHeader carries the opaque identity string issued by the
	// external identity provider for seekers.
	ApplicantHeader = "X-Applicant-Id"
)

// Identify resolves the request principal from a bearer token (companies,
// institutions) or the applicant header (seekers). Requests without any
// identity proceed as anonymous; the authorization guard rejects them on
// protected operations. Malformed or expired tokens fail immediately.
func Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if token == "" {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			claims, err := auth.VerifyJWT(token)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					respond.Error(c, http.StatusUnauthorized, "token_expired", "token expired, login again", nil)
					return
				}
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			kind := authz.Kind(claims.Kind)
			if kind != authz.KindCompany && kind != authz.KindInstitution {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			c.Set(principalKindKey, claims.Kind)
			c.Set(principalIDKey, claims.Sub)
			if claims.Email != "" {
				c.Set(principalEmailKey, claims.Email)
			}
			c.Next()
			return
		}

		if applicant := strings.TrimSpace(c.GetHeader(ApplicantHeader)); applicant != "" {
			c.Set(principalKindKey, string(authz.KindSeeker))
			c.Set(principalIDKey, applicant)
		}
		c.Next()
	}
}

// PrincipalFromContext fetches the principal resolved by Identify.
// Anonymous requests yield the zero principal.
func PrincipalFromContext(c *gin.Context) authz.Principal {
	if c == nil {
		return authz.Anonymous
	}
	kind := c.GetString(principalKindKey)
	id := c.GetString(principalIDKey)
	if kind == "" || id == "" {
		return authz.Anonymous
	}
	return authz.Principal{Kind: authz.Kind(kind), ID: id}
}

// PrincipalEmailFromContext fetches the email carried in the session token.
func PrincipalEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(principalEmailKey)
}
