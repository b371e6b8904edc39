package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akhilvs/sarvajna/internal/domain/auth"
	apperrors "github.com/akhilvs/sarvajna/pkg/errors"
)

// Register creates a new staff account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	view, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, authError(err, "register_failed"))
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Login exchanges staff credentials for a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, authError(err, "login_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh issues a fresh token pair from a refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, authError(err, "refresh_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profile returns the authenticated staff user's details.
func (h *Handler) Profile(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}

	view, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, authError(err, "profile_failed"))
		return
	}
	c.JSON(http.StatusOK, view)
}

// Logout revokes the user's linked identities.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims.UserID); err != nil {
		abortWithError(c, authError(err, "logout_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// GoogleLogin starts the Google OAuth flow with PKCE.
func (h *Handler) GoogleLogin(c *gin.Context) {
	state, verifier, challenge, err := auth.NewOAuthState()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "oauth_failed", "failed to create oauth state", err))
		return
	}

	url, err := h.authSvc.GoogleAuthURL(c.Request.Context(), state, challenge)
	if err != nil {
		abortWithError(c, authError(err, "oauth_failed"))
		return
	}

	setOAuthStateCookie(c, state, verifier)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback completes the Google OAuth flow.
func (h *Handler) GoogleCallback(c *gin.Context) {
	cookie, ok := readOAuthStateCookie(c)
	clearOAuthStateCookie(c)
	if !ok || cookie.State != c.Query("state") {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "oauth state mismatch", nil))
		return
	}

	resp, err := h.authSvc.GoogleCallback(c.Request.Context(), c.Query("code"), cookie.CodeVerifier)
	if err != nil {
		abortWithError(c, authError(err, "oauth_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func authError(err error, fallback string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallback
	switch {
	case apperrors.IsCode(err, "invalid_input"), apperrors.IsCode(err, "invalid_request"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "domain_not_allowed"):
		status = http.StatusForbidden
		code = "domain_not_allowed"
	case apperrors.IsCode(err, "email_exists"):
		status = http.StatusConflict
		code = "email_exists"
	case apperrors.IsCode(err, "invalid_credentials"):
		status = http.StatusUnauthorized
		code = "invalid_credentials"
	case apperrors.IsCode(err, "invalid_token"):
		status = http.StatusUnauthorized
		code = "invalid_token"
	case apperrors.IsCode(err, "user_not_found"):
		status = http.StatusNotFound
		code = "user_not_found"
	case apperrors.IsCode(err, "oauth_exchange_failed"):
		status = http.StatusBadGateway
		code = "oauth_exchange_failed"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}
