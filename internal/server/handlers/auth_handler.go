package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cropwise/cropwise/internal/domain/models"
	"github.com/cropwise/cropwise/internal/store"
)

// AuthHandler serves signup, login and the advisory admin check.
type AuthHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAuthHandler constructs the auth HTTP adapter.
func NewAuthHandler(s *store.Store, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{store: s, logger: logger}
}

type signupRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Gender     string `json:"gender"`
	Occupation string `json:"occupation"`
	Location   string `json:"location"`
}

// Signup creates an account.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
		return
	}

	user, err := h.store.CreateUser(models.User{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Gender:     req.Gender,
		Occupation: req.Occupation,
		Location:   req.Location,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email or username already exists. Please use a different email or try logging in."})
			return
		}
		h.logger.Error("signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account. Please try again."})
		return
	}

	h.logger.Info("new user created", zap.String("uid", user.UID))
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully! You can now login.",
		"success": true,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates by username or email and issues the advisory token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := h.store.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No account found with this email/username. Please check your credentials or sign up."})
		case errors.Is(err, store.ErrWrongPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect password. Please try again."})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed. Please try again."})
		}
		return
	}

	token := fmt.Sprintf("token-%d-%s", time.Now().UnixMilli(), user.UID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user.Public(),
		"token":   token,
	})
}

// CheckAdmin reports whether the stored role for an email is admin. This is
// advisory only; nothing server-side gates the admin routes on it.
func (h *AuthHandler) CheckAdmin(c *gin.Context) {
	email := c.Param("email")

	user, found := h.store.UserByEmail(email)
	if found && user.Role == models.RoleAdmin {
		c.JSON(http.StatusOK, gin.H{"isAdmin": true, "user": user})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAdmin": false})
}
