package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanwk/gondotrack/internal/api"
	"github.com/tanwk/gondotrack/internal/api/middleware"
	"github.com/tanwk/gondotrack/internal/auth"
	"github.com/tanwk/gondotrack/internal/config"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/models"
	"github.com/tanwk/gondotrack/internal/otp"
)

// rememberMaxAge is the cookie Max-Age set when remember-me is requested.
// Without remember-me the cookie carries no Max-Age at all (session cookie);
// the token's own expiry claim still bounds it server-side.
const rememberMaxAge = 30 * 24 * 60 * 60

// genericResetMessage is returned by forgot-password and resend-otp whether
// or not the email exists, to avoid account enumeration
const genericResetMessage = "If the account exists, a code has been sent to the email address"

// AuthHandler handles signup, login and the OTP flows
type AuthHandler struct {
	cfg    *config.Config
	users  *repository.UserRepository
	issuer *otp.Issuer
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config, users *repository.UserRepository, issuer *otp.Issuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		users:  users,
		issuer: issuer,
		logger: logger,
	}
}

// SignupRequest represents a signup request
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// AuthResponse is returned on successful signup or login
type AuthResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// Signup creates an account, emails a verification code and starts a session
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Email, password and name are required")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to create account")
		return
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		Verified:     false,
	}
	if err := h.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			api.RespondError(c, http.StatusConflict, api.CodeConflict, "User already exists")
			return
		}
		h.logger.Error("failed to create user", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to create account")
		return
	}

	// Email the signup verification code. A mail failure must not lose the
	// freshly created account, so it is logged and the signup succeeds; the
	// user can request a resend.
	if _, err := h.issuer.Issue(c.Request.Context(), user, models.OTPPurposeSignup, h.cfg.SignupOTPTTL()); err != nil {
		if errors.Is(err, otp.ErrMailDelivery) {
			h.logger.Error("failed to email signup code", "user_id", user.ID, "error", err)
		} else {
			h.logger.Error("failed to issue signup code", "user_id", user.ID, "error", err)
			api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to create account")
			return
		}
	}

	if err := h.startSession(c, user, false); err != nil {
		return
	}

	api.RespondSuccess(c, AuthResponse{Message: "Account created", User: user})
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
	TOTP       string `json:"totp"`
}

// Login authenticates a user and starts a session
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Email and password are required")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		// Same message as a bad password; the response must not reveal
		// whether the account exists
		api.RespondError(c, http.StatusUnauthorized, api.CodeAuthentication, "Invalid email or password")
		return
	}

	valid, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		api.RespondError(c, http.StatusUnauthorized, api.CodeAuthentication, "Invalid email or password")
		return
	}

	// Second factor, only for accounts that enrolled one
	if user.TOTPEnabled {
		if req.TOTP == "" || !auth.ValidateTOTP(user.TOTPSecret, req.TOTP) {
			api.RespondError(c, http.StatusUnauthorized, api.CodeAuthentication, "Invalid TOTP code")
			return
		}
	}

	if err := h.startSession(c, user, req.RememberMe); err != nil {
		return
	}

	api.RespondSuccess(c, AuthResponse{Message: "Logged in", User: user})
}

// EmailRequest carries just an email address
type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword issues a password-reset code
// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Email is required")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Generic response either way
			api.RespondSuccess(c, api.MessageResponse{Message: genericResetMessage})
			return
		}
		h.logger.Error("failed to look up user", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to process request")
		return
	}

	if err := h.issuer.InvalidateActive(user.ID, models.OTPPurposeForgotPassword); err != nil {
		h.logger.Error("failed to invalidate codes", "user_id", user.ID, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to process request")
		return
	}

	// Unlike signup, a reset flow is useless without the email, so a mail
	// failure is surfaced
	if _, err := h.issuer.Issue(c.Request.Context(), user, models.OTPPurposeForgotPassword, h.cfg.ResetOTPTTL()); err != nil {
		h.logger.Error("failed to issue reset code", "user_id", user.ID, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to send email")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: genericResetMessage})
}

// ResendOTP invalidates any active codes and issues a fresh one
// POST /api/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Email is required")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondSuccess(c, api.MessageResponse{Message: genericResetMessage})
			return
		}
		h.logger.Error("failed to look up user", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to process request")
		return
	}

	if _, err := h.issuer.Resend(c.Request.Context(), user); err != nil {
		h.logger.Error("failed to resend code", "user_id", user.ID, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to send email")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: genericResetMessage})
}

// VerifyOTPRequest represents an OTP verification request
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyOTP checks a submitted code and consumes it
// POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Email and OTP are required")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "User not found")
			return
		}
		h.logger.Error("failed to look up user", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to process request")
		return
	}

	record, err := h.issuer.Verify(user, req.OTP)
	if err != nil {
		if errors.Is(err, otp.ErrInvalidOrExpired) {
			// Wrong code and expired code are deliberately the same response
			api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid or expired OTP")
			return
		}
		h.logger.Error("failed to verify code", "user_id", user.ID, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to process request")
		return
	}

	if record.Purpose == models.OTPPurposeSignup && !user.Verified {
		if err := h.users.SetVerified(user.ID); err != nil {
			h.logger.Error("failed to mark user verified", "user_id", user.ID, "error", err)
			api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to process request")
			return
		}
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "OTP verified"})
}

// ResetPasswordRequest represents a password reset request
type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword replaces the password for an account
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Email and password are required")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "User not found")
			return
		}
		h.logger.Error("failed to look up user", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to process request")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to reset password")
		return
	}

	if err := h.users.UpdatePassword(user.ID, passwordHash); err != nil {
		h.logger.Error("failed to update password", "user_id", user.ID, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to reset password")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "Password reset successfully"})
}

// Logout clears the session cookie. Tokens are stateless, so a copy held
// elsewhere stays valid until its expiry; only the browser's cookie is gone.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)

	api.RespondSuccess(c, api.MessageResponse{Message: "Logged out"})
}

// TOTPEnrollResponse carries the enrollment secret and provisioning URL
type TOTPEnrollResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// TOTPEnroll generates a TOTP secret for the logged-in user. The second
// factor only takes effect once the user confirms a code.
// POST /api/auth/totp/enroll
func (h *AuthHandler) TOTPEnroll(c *gin.Context) {
	user, err := h.users.GetByID(middleware.UserID(c))
	if err != nil {
		api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "User not found")
		return
	}

	secret, err := auth.GenerateTOTPSecret(user.Email)
	if err != nil {
		h.logger.Error("failed to generate TOTP secret", "user_id", user.ID, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to enroll TOTP")
		return
	}

	if err := h.users.UpdateTOTP(user.ID, secret, false); err != nil {
		h.logger.Error("failed to store TOTP secret", "user_id", user.ID, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to enroll TOTP")
		return
	}

	api.RespondSuccess(c, TOTPEnrollResponse{
		Secret: secret,
		URL:    auth.TOTPProvisioningURL(secret, user.Email),
	})
}

// TOTPConfirmRequest carries the code proving the authenticator is set up
type TOTPConfirmRequest struct {
	Code string `json:"code" binding:"required"`
}

// TOTPConfirm validates a code against the pending secret and enables the
// second factor
// POST /api/auth/totp/confirm
func (h *AuthHandler) TOTPConfirm(c *gin.Context) {
	var req TOTPConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Code is required")
		return
	}

	user, err := h.users.GetByID(middleware.UserID(c))
	if err != nil {
		api.RespondError(c, http.StatusNotFound, api.CodeNotFound, "User not found")
		return
	}

	if user.TOTPSecret == "" {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "TOTP enrollment has not been started")
		return
	}

	if !auth.ValidateTOTP(user.TOTPSecret, req.Code) {
		api.RespondError(c, http.StatusBadRequest, api.CodeValidation, "Invalid TOTP code")
		return
	}

	if err := h.users.UpdateTOTP(user.ID, user.TOTPSecret, true); err != nil {
		h.logger.Error("failed to enable TOTP", "user_id", user.ID, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to enable TOTP")
		return
	}

	api.RespondSuccess(c, api.MessageResponse{Message: "TOTP enabled"})
}

// startSession mints a session token and sets the cookie. Remember-me
// lengthens both the token expiry and the cookie lifetime.
func (h *AuthHandler) startSession(c *gin.Context, user *models.User, remember bool) error {
	ttl := h.cfg.SessionTTL()
	maxAge := 0 // session cookie: no Max-Age attribute
	if remember {
		ttl = h.cfg.RememberTTL()
		maxAge = rememberMaxAge
	}

	token, err := auth.IssueSession(user.ID, user.Email, []byte(h.cfg.Auth.JWTSecret), ttl, timeNow())
	if err != nil {
		h.logger.Error("failed to issue session token", "user_id", user.ID, "error", err)
		api.RespondError(c, http.StatusInternalServerError, api.CodeDependency, "Failed to start session")
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", false, true)

	return nil
}
