package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akhilvs/sarvajna/internal/domain/auth"
	apperrors "github.com/akhilvs/sarvajna/pkg/errors"
)

func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		token := strings.TrimSpace(parts[1])
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			status := http.StatusForbidden
			code := "invalid_token"
			if !apperrors.IsCode(err, "invalid_token") {
				status = http.StatusInternalServerError
				code = "auth_failed"
			}
			abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// requireRole guards routes behind staff roles. It must run after
// authMiddleware so claims are present.
func requireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := getClaims(c)
		if !ok {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		abortWithError(c, NewHTTPError(http.StatusForbidden, "forbidden", "insufficient role", nil))
	}
}
