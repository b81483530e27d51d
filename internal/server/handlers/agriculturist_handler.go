package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cropwise/cropwise/internal/domain/models"
	"github.com/cropwise/cropwise/internal/store"
)

// AgriculturistHandler serves the expert-directory CRUD endpoints.
type AgriculturistHandler struct {
	store     *store.Store
	uploadDir string
	logger    *zap.Logger
}

// NewAgriculturistHandler constructs the directory HTTP adapter.
func NewAgriculturistHandler(s *store.Store, uploadDir string, logger *zap.Logger) *AgriculturistHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgriculturistHandler{store: s, uploadDir: uploadDir, logger: logger}
}

// List returns the whole directory as a bare array.
func (h *AgriculturistHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Agriculturists())
}

// Create enrolls a new expert.
func (h *AgriculturistHandler) Create(c *gin.Context) {
	fullName := c.PostForm("fullName")
	location := c.PostForm("location")
	specialization := c.PostForm("specialization")
	experience := c.PostForm("experience")
	email := c.PostForm("email")

	if fullName == "" || location == "" || specialization == "" || experience == "" || email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	profileImage, err := saveUploadedImage(c, "profileImage", h.uploadDir)
	if err != nil {
		h.logger.Warn("rejected profile image", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	years, _ := strconv.Atoi(experience)
	agriculturist, err := h.store.CreateAgriculturist(models.Agriculturist{
		Name:           fullName,
		Location:       location,
		Specialization: specialization,
		Experience:     years,
		Email:          email,
		ProfileImage:   profileImage,
		EnrolledBy:     c.PostForm("enrolledBy"),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			existing, _ := h.store.AgriculturistByEmail(email)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "You are already enrolled as an agriculturist!",
				"message": "This email address is already registered in our agriculturist directory. You can edit your profile instead of enrolling again.",
				"existingProfile": gin.H{
					"name":           existing.Name,
					"specialization": existing.Specialization,
					"location":       existing.Location,
				},
			})
			return
		}
		h.logger.Error("enrollment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to enroll agriculturist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Agriculturist enrolled successfully", "agriculturist": agriculturist})
}

// Update replaces a directory entry's profile fields.
func (h *AgriculturistHandler) Update(c *gin.Context) {
	id := c.Param("id")

	fullName := c.PostForm("fullName")
	location := c.PostForm("location")
	specialization := c.PostForm("specialization")
	experience := c.PostForm("experience")
	email := c.PostForm("email")

	if fullName == "" || location == "" || specialization == "" || experience == "" || email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	profileImage, err := saveUploadedImage(c, "profileImage", h.uploadDir)
	if err != nil {
		h.logger.Warn("rejected profile image", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	years, _ := strconv.Atoi(experience)
	agriculturist, err := h.store.UpdateAgriculturist(id, func(a models.Agriculturist) models.Agriculturist {
		a.Name = fullName
		a.Location = location
		a.Specialization = specialization
		a.Experience = years
		a.Email = email
		if profileImage != "" {
			a.ProfileImage = profileImage
		}
		return a
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAgriNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Agriculturist not found"})
		case errors.Is(err, store.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Agriculturist with this email already exists"})
		default:
			h.logger.Error("profile update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "agriculturist": agriculturist})
}

// Delete removes a directory entry.
func (h *AgriculturistHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteAgriculturist(id); err != nil {
		if errors.Is(err, store.ErrAgriNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agriculturist not found"})
			return
		}
		h.logger.Error("agriculturist delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete agriculturist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Agriculturist deleted successfully"})
}
