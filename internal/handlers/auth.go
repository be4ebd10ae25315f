package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"checkup-server/internal/config"
	"checkup-server/internal/logger"
	"checkup-server/internal/middleware"
	"checkup-server/internal/models"
	"checkup-server/internal/storage"
	"checkup-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Doctors storage.DoctorStore
	Tokens  storage.RefreshTokenStore
	Cfg     *config.Config
	Log     *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(doctors storage.DoctorStore, tokens storage.RefreshTokenStore, cfg *config.Config, log *logger.Logger) *AuthHandler {
	return &AuthHandler{Doctors: doctors, Tokens: tokens, Cfg: cfg, Log: log}
}

// RegisterRequest represents the request body for doctor registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register handles doctor registration. Passwords are stored as bcrypt
// hashes, never verbatim.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// Check if the username is already taken
	if _, err := h.Doctors.GetByUsername(c.Request.Context(), req.Username); err == nil {
		utils.BadRequest(c, "A doctor with this username already exists")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		h.Log.WithComponent("auth").WithError(err).Error("username lookup failed")
		utils.InternalServerError(c, "Internal Server Error")
		return
	}

	doctor := models.Doctor{
		Username: req.Username,
		Name:     req.Name,
	}
	if err := doctor.SetPassword(req.Password); err != nil {
		h.Log.WithComponent("auth").WithError(err).Error("password hashing failed")
		utils.InternalServerError(c, "Internal Server Error")
		return
	}

	if err := h.Doctors.Create(c.Request.Context(), &doctor); err != nil {
		h.Log.WithComponent("auth").WithError(err).Error("doctor creation failed")
		utils.InternalServerError(c, "Internal Server Error")
		return
	}

	utils.Created(c, gin.H{"message": "Doctor registered successfully", "doctor": doctor.Sanitize()})
}

// LoginRequest represents the request body for doctor login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
	Doctor       models.DoctorSanitized `json:"doctor"`
}

// Login handles doctor login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctor, err := h.Doctors.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.Unauthorized(c, "Invalid username or password")
		} else {
			h.Log.WithComponent("auth").WithError(err).Error("doctor lookup failed")
			utils.InternalServerError(c, "Internal Server Error")
		}
		return
	}

	if !doctor.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid username or password")
		return
	}

	accessToken, refreshTokenString, err := utils.GenerateTokens(doctor, h.Cfg)
	if err != nil {
		h.Log.WithComponent("auth").WithError(err).Error("token generation failed")
		utils.InternalServerError(c, "Internal Server Error")
		return
	}

	refreshToken := models.RefreshToken{
		DoctorID:  doctor.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
		IsRevoked: false,
	}
	if err := h.Tokens.Create(c.Request.Context(), &refreshToken); err != nil {
		h.Log.WithComponent("auth").WithError(err).Error("refresh token persistence failed")
		utils.InternalServerError(c, "Internal Server Error")
		return
	}

	h.setRefreshCookie(c, refreshTokenString, h.Cfg.JWTRefreshExpirationHours*60*60)

	utils.Success(c, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		Doctor:       doctor.Sanitize(),
	})
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken handles refreshing an access token using a refresh token,
// rotating the refresh token on every use.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	// Prefer the HTTP-only cookie, fall back to the request body
	refreshTokenString, err := c.Cookie("refresh_token")
	if err != nil || refreshTokenString == "" {
		var req RefreshTokenRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		refreshTokenString = req.RefreshToken
	}

	claims, err := utils.ValidateToken(refreshTokenString, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "unauthenticated")
		return
	}

	stored, err := h.Tokens.GetActive(c.Request.Context(), refreshTokenString)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.Unauthorized(c, "unauthenticated")
		} else {
			h.Log.WithComponent("auth").WithError(err).Error("refresh token lookup failed")
			utils.InternalServerError(c, "Internal Server Error")
		}
		return
	}

	doctor, err := h.Doctors.GetByID(c.Request.Context(), claims.DoctorID)
	if err != nil {
		h.Log.WithComponent("auth").WithError(err).Error("doctor lookup for refresh failed")
		utils.InternalServerError(c, "Internal Server Error")
		return
	}

	// Rotate: revoke the presented token before issuing a new one
	if err := h.Tokens.Revoke(c.Request.Context(), stored); err != nil {
		h.Log.WithComponent("auth").WithError(err).Error("refresh token revocation failed")
		utils.InternalServerError(c, "Internal Server Error")
		return
	}

	newAccessToken, newRefreshTokenString, err := utils.GenerateTokens(doctor, h.Cfg)
	if err != nil {
		h.Log.WithComponent("auth").WithError(err).Error("token generation failed")
		utils.InternalServerError(c, "Internal Server Error")
		return
	}

	newRefreshToken := models.RefreshToken{
		DoctorID:  doctor.ID,
		Token:     newRefreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
		IsRevoked: false,
	}
	if err := h.Tokens.Create(c.Request.Context(), &newRefreshToken); err != nil {
		h.Log.WithComponent("auth").WithError(err).Error("refresh token persistence failed")
		utils.InternalServerError(c, "Internal Server Error")
		return
	}

	h.setRefreshCookie(c, newRefreshTokenString, h.Cfg.JWTRefreshExpirationHours*60*60)

	utils.Success(c, gin.H{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshTokenString,
	})
}

// LogoutRequest represents the request body for doctor logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the presented refresh token and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshTokenString, err := c.Cookie("refresh_token")
	if err != nil || refreshTokenString == "" {
		var req LogoutRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			utils.BadRequest(c, "Refresh token is required")
			return
		}
		refreshTokenString = req.RefreshToken
	}

	stored, err := h.Tokens.GetActive(c.Request.Context(), refreshTokenString)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Token not found or already revoked, which is acceptable for logout.
			h.setRefreshCookie(c, "", -1)
			utils.Success(c, gin.H{"message": "Logout successful"})
		} else {
			h.Log.WithComponent("auth").WithError(err).Error("refresh token lookup failed")
			utils.InternalServerError(c, "Internal Server Error")
		}
		return
	}

	if err := h.Tokens.Revoke(c.Request.Context(), stored); err != nil {
		h.Log.WithComponent("auth").WithError(err).Error("refresh token revocation failed")
		utils.InternalServerError(c, "Internal Server Error")
		return
	}

	h.setRefreshCookie(c, "", -1)
	utils.Success(c, gin.H{"message": "Logout successful"})
}

// GetProfile handles fetching the currently authenticated doctor's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Unauthorized(c, "unauthenticated")
		return
	}

	doctor, err := h.Doctors.GetByID(c.Request.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.NotFound(c, "Doctor profile not found")
		} else {
			h.Log.WithComponent("auth").WithError(err).Error("profile lookup failed")
			utils.InternalServerError(c, "Internal Server Error")
		}
		return
	}

	utils.Success(c, doctor.Sanitize())
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetCookie(
		"refresh_token",
		value,
		maxAge,
		"/",
		"",                                 // Domain (empty means current domain)
		h.Cfg.Environment != "development", // Secure (true in prod, false in dev)
		true,                               // HTTP only
	)
}
