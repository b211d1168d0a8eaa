package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"tasktracker/internal/apperr"
	"tasktracker/internal/config"
	"tasktracker/internal/middleware"
	"tasktracker/internal/models"
	"tasktracker/internal/services"
	"tasktracker/internal/utils"
)

type AuthHandler struct {
	userService services.UserService
	authService services.AuthService
	cfg         config.AuthConfig
}

func NewAuthHandler(userService services.UserService, authService services.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{userService: userService, authService: authService, cfg: cfg}
}

func (h *AuthHandler) signAccessToken(userID int64) (string, error) {
	claims := &middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.cfg.AccessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// @Summary      Register
// @Description  Creates an account and sends a welcome email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "registration data"
// @Success      201  {object}  handlers.Envelope
// @Failure      400  {object}  handlers.Envelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(req.Email)

	user, err := h.userService.Register(c.Request.Context(), req.Name, email, req.Password)
	if err != nil {
		var ve *apperr.ValidationError
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			respondFail(c, http.StatusBadRequest, "User already exists")
		case errors.As(err, &ve):
			respondFail(c, http.StatusBadRequest, ve.Msg)
		default:
			log.Printf("[auth][register][err] email=%q: %v", email, err)
			respondServerError(c)
		}
		return
	}

	log.Printf("[auth][register][ok] userID=%d email=%q", user.ID, email)
	respondSuccess(c, http.StatusCreated, gin.H{
		"userId": user.ID,
		"name":   user.Name,
		"email":  user.Email,
	}, "User registered successfully")
}

// @Summary      Login
// @Description  Authenticates a user and returns access and refresh tokens
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "credentials"
// @Success      200  {object}  handlers.Envelope
// @Failure      400  {object}  handlers.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	user, err := h.userService.GetUserByEmail(c.Request.Context(), email)
	if err != nil || user == nil {
		// same message as a wrong password: don't reveal which one failed
		respondFail(c, http.StatusBadRequest, "Invalid email or password")
		return
	}

	if !h.authService.CheckPassword(user.PasswordHash, strings.TrimSpace(req.Password)) {
		log.Printf("[auth][login] password mismatch for userID=%d", user.ID)
		respondFail(c, http.StatusBadRequest, "Invalid email or password")
		return
	}

	accessToken, err := h.signAccessToken(user.ID)
	if err != nil {
		log.Printf("[auth][login][err] sign access token userID=%d: %v", user.ID, err)
		respondServerError(c)
		return
	}

	// opaque refresh token, stored server-side
	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		log.Printf("[auth][login][err] new refresh token userID=%d: %v", user.ID, err)
		respondServerError(c)
		return
	}
	rtExp := time.Now().Add(h.cfg.RefreshTTL)
	if err := h.userService.UpdateRefresh(c.Request.Context(), user.ID, rt, rtExp); err != nil {
		log.Printf("[auth][login][err] store refresh token userID=%d: %v", user.ID, err)
		respondServerError(c)
		return
	}

	log.Printf("[auth][login][ok] userID=%d", user.ID)
	respondSuccess(c, http.StatusOK, gin.H{
		"token":        accessToken,
		"refreshToken": rt,
	}, "Login successful")
}

// POST /auth/refresh — rotate the refresh token and mint a new access token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	old := strings.TrimSpace(req.RefreshToken)

	user, err := h.userService.GetByRefreshToken(c.Request.Context(), old)
	if err != nil || user == nil || user.RefreshToken == nil || user.RefreshExpiresAt == nil || user.RefreshRevoked {
		respondFail(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if time.Now().After(*user.RefreshExpiresAt) {
		respondFail(c, http.StatusUnauthorized, "Refresh token expired")
		return
	}

	newRT, err := utils.NewRefreshToken(32)
	if err != nil {
		respondServerError(c)
		return
	}
	newExp := time.Now().Add(h.cfg.RefreshTTL)
	rotated, err := h.userService.RotateRefresh(c.Request.Context(), old, newRT, newExp)
	if err != nil || rotated == nil {
		respondFail(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	accessToken, err := h.signAccessToken(rotated.ID)
	if err != nil {
		respondServerError(c)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"token":        accessToken,
		"refreshToken": newRT,
	}, "Token refreshed")
}
