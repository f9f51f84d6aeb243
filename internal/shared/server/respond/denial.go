package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/authz"
)

// Denied maps an authorization denial onto the wire policy: missing identity
// is 401, a refused mutation is 403, and refused reads are 404 so existence
// of resources the caller cannot see is never leaked. Returns false when err
// is not a denial, leaving the caller to handle it.
func Denied(c *gin.Context, err error, mutation bool) bool {
	var denial authz.Denial
	if !errors.As(err, &denial) {
		return false
	}
	switch denial.Reason {
	case authz.ReasonUnauthenticated:
		Error(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
	case authz.ReasonNoSuchResource:
		Error(c, http.StatusNotFound, "not_found", "resource not found", nil)
	default:
		if mutation {
			Error(c, http.StatusForbidden, "forbidden", "not allowed", nil)
		} else {
			Error(c, http.StatusNotFound, "not_found", "resource not found", nil)
		}
	}
	return true
}
