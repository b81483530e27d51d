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

// ProductHandler serves the catalog CRUD endpoints. Create and update accept
// multipart forms so an image can ride along; plain form posts work too.
type ProductHandler struct {
	store     *store.Store
	uploadDir string
	logger    *zap.Logger
}

// NewProductHandler constructs the product HTTP adapter.
func NewProductHandler(s *store.Store, uploadDir string, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{store: s, uploadDir: uploadDir, logger: logger}
}

// List returns the whole catalog.
func (h *ProductHandler) List(c *gin.Context) {
	products := h.store.Products()
	h.logger.Debug("products listed", zap.Int("count", len(products)))
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Create adds a catalog entry.
func (h *ProductHandler) Create(c *gin.Context) {
	imagePath, err := saveUploadedImage(c, "image", h.uploadDir)
	if err != nil {
		h.logger.Warn("rejected product image", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := h.store.CreateProduct(models.Product{
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		Price:       formFloat(c, "price"),
		Unit:        c.PostForm("unit"),
		Description: c.PostForm("description"),
		Image:       imagePath,
		Stock:       formInt(c, "stock"),
		Seller:      c.PostForm("seller"),
		Location:    c.PostForm("location"),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Product added successfully", "product": product})
}

// Update replaces the mutable fields of a catalog entry. The stored image is
// kept unless a new one is uploaded.
func (h *ProductHandler) Update(c *gin.Context) {
	id := c.Param("id")

	imagePath, err := saveUploadedImage(c, "image", h.uploadDir)
	if err != nil {
		h.logger.Warn("rejected product image", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.store.UpdateProduct(id, func(p models.Product) models.Product {
		p.Name = c.PostForm("name")
		p.Category = c.PostForm("category")
		p.Price = formFloat(c, "price")
		p.Unit = c.PostForm("unit")
		p.Description = c.PostForm("description")
		p.Stock = formInt(c, "stock")
		if imagePath != "" {
			p.Image = imagePath
		}
		if seller := c.PostForm("seller"); seller != "" {
			p.Seller = seller
		}
		if location := c.PostForm("location"); location != "" {
			p.Location = location
		}
		return p
	})
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("product update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// Delete removes a catalog entry.
func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteProduct(id); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("product delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// formFloat parses a numeric form field. Unparseable input becomes zero;
// the previous system stored NaN here, which JSON cannot carry.
func formFloat(c *gin.Context, field string) float64 {
	value, err := strconv.ParseFloat(c.PostForm(field), 64)
	if err != nil {
		return 0
	}
	return value
}

func formInt(c *gin.Context, field string) int {
	value, err := strconv.Atoi(c.PostForm(field))
	if err != nil {
		return 0
	}
	return value
}
