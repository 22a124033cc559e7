package catalogapi

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jrmart/internal/middleware"
	"jrmart/internal/models"
)

// productInput is the body of POST and PUT. An "id" in the body is ignored:
// ids are assigned by the database.
type productInput struct {
	Name          string     `json:"name" binding:"required"`
	Category      string     `json:"category" binding:"required"`
	Price         *float64   `json:"price" binding:"required,gte=0"`
	Description   string     `json:"description"`
	ImageFilename string     `json:"imageFilename"`
	CreatedAt     *time.Time `json:"createdAt"`
	SellerID      int        `json:"sellerId"`
	Status        string     `json:"status"`
}

func (in productInput) draft() (models.Draft, error) {
	cat, ok := models.ParseCategory(in.Category)
	if !ok {
		return models.Draft{}, fmt.Errorf("unknown category %q", in.Category)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Draft{}, errors.New("name is required")
	}
	d := models.Draft{
		Name:          name,
		Category:      cat,
		Price:         *in.Price,
		Description:   in.Description,
		ImageFilename: in.ImageFilename,
		SellerID:      in.SellerID,
		Status:        in.Status,
	}
	if in.CreatedAt != nil {
		d.CreatedAt = *in.CreatedAt
	}
	return d, nil
}

// productPatch is the body of PATCH; absent fields keep their value.
type productPatch struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price" binding:"omitempty,gte=0"`
	Description   *string  `json:"description"`
	ImageFilename *string  `json:"imageFilename"`
	SellerID      *int     `json:"sellerId"`
	Status        *string  `json:"status"`
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type handler struct {
	store     *Store
	imagesDir string
	logger    *slog.Logger
}

// NewRouter serves the products collection and the image store.
func NewRouter(store *Store, imagesDir string, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{store: store, imagesDir: imagesDir, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.GET("/health", h.health)
	r.GET("/products", h.list)
	r.GET("/products/:id", h.get)
	r.POST("/products", h.create)
	r.PUT("/products/:id", h.replace)
	r.PATCH("/products/:id", h.patch)
	r.DELETE("/products/:id", h.delete)

	r.POST("/images", h.uploadImage)
	r.Static("/images", imagesDir)
	return r
}

func (h *handler) health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *handler) list(c *gin.Context) {
	f := models.Filter{Query: c.Query("q")}
	if raw := c.Query("category"); raw != "" {
		cat, ok := models.ParseCategory(raw)
		if !ok {
			c.JSON(http.StatusOK, []models.Product{})
			return
		}
		f.Category = cat
	}
	items, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		h.internal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// productID parses the :id param. Anything that is not a stored key is a
// 404, like an unknown numeric id.
func productID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
		return 0, false
	}
	return uint(n), true
}

func (h *handler) get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	p, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) create(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := in.draft()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.store.Create(c.Request.Context(), d)
	if err != nil {
		h.internal(c, err)
		return
	}
	h.logger.InfoContext(c.Request.Context(), "product stored", "id", p.ID)
	c.JSON(http.StatusCreated, p)
}

func (h *handler) replace(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := in.draft()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.store.Update(c.Request.Context(), id, d)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) patch(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var in productPatch
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var cat models.Category
	if in.Category != nil {
		var ok bool
		if cat, ok = models.ParseCategory(*in.Category); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown category %q", *in.Category)})
			return
		}
	}
	p, err := h.store.Patch(c.Request.Context(), id, func(d *models.Draft) {
		if in.Name != nil {
			d.Name = *in.Name
		}
		if in.Category != nil {
			d.Category = cat
		}
		if in.Price != nil {
			d.Price = *in.Price
		}
		if in.Description != nil {
			d.Description = *in.Description
		}
		if in.ImageFilename != nil {
			d.ImageFilename = *in.ImageFilename
		}
		if in.SellerID != nil {
			d.SellerID = *in.SellerID
		}
		if in.Status != nil {
			d.Status = *in.Status
		}
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *handler) uploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	name := models.ImageName(file.Filename)
	if !imageExts[strings.ToLower(filepath.Ext(name))] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image format"})
		return
	}
	saved, err := h.saveImage(file, name)
	if err != nil {
		h.internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imageFilename": saved})
}

// saveImage stores the upload under name, or under a prefixed name when an
// image with that name already exists.
func (h *handler) saveImage(file *multipart.FileHeader, name string) (string, error) {
	if err := os.MkdirAll(h.imagesDir, 0o755); err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.OpenFile(filepath.Join(h.imagesDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		name = uuid.NewString()[:8] + "-" + name
		dst, err = os.OpenFile(filepath.Join(h.imagesDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	return name, dst.Close()
}

func (h *handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.internal(c, err)
}

func (h *handler) internal(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
