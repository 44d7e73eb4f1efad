package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"domik/config"
	brepo "domik/database/repository/booking"
	rrepo "domik/database/repository/resource"
	"domik/models"
	"domik/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// maxImagesPerResource caps the gallery size; Telegram albums hold at
// most ten photos and the card stays readable with five.
const maxImagesPerResource = 5

// AdminHandler serves the management HTTP API.
type AdminHandler struct {
	Resources rrepo.Repository
	Bookings  brepo.Repository
	Logger    *zap.Logger
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges admin credentials for a JWT.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	if req.Username != config.AppConfig.AdminUser ||
		bcrypt.CompareHashAndPassword([]byte(config.AppConfig.AdminPasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := utils.GenerateToken(req.Username, 24*time.Hour)
	if err != nil {
		h.Logger.Error("failed to issue admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *AdminHandler) ListResources(c *gin.Context) {
	list, err := h.Resources.ListAll()
	if err != nil {
		h.Logger.Error("failed to list resources", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list resources"})
		return
	}
	c.JSON(http.StatusOK, list)
}

type resourceRequest struct {
	Location    string  `json:"location" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description string  `json:"description" binding:"max=500"`
	Status      *int    `json:"status"`
}

func (h *AdminHandler) CreateResource(c *gin.Context) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := &models.Resource{
		Location:    req.Location,
		Price:       req.Price,
		Description: req.Description,
		Status:      models.ResourceEnabled,
		Created:     time.Now(),
	}
	if req.Status != nil {
		res.Status = *req.Status
	}
	if err := h.Resources.Create(res); err != nil {
		h.Logger.Error("failed to create resource", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create resource"})
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *AdminHandler) UpdateResource(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res, err := h.Resources.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res.Location = req.Location
	res.Price = req.Price
	res.Description = req.Description
	if req.Status != nil {
		res.Status = *req.Status
	}
	res.Updated = time.Now()
	if err := h.Resources.Update(res); err != nil {
		h.Logger.Error("failed to update resource", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update resource"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteResource removes the row, its image rows, and the image folder.
func (h *AdminHandler) DeleteResource(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := h.Resources.GetByID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}
	if err := h.Resources.Delete(id); err != nil {
		h.Logger.Error("failed to delete resource", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete resource"})
		return
	}
	folder := filepath.Join(config.AppConfig.UploadBase, strconv.FormatUint(uint64(id), 10))
	if err := os.RemoveAll(folder); err != nil {
		h.Logger.Warn("failed to remove image folder", zap.String("folder", folder), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) ListImages(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	imgs, err := h.Resources.Images(id)
	if err != nil {
		h.Logger.Error("failed to list images", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list images"})
		return
	}
	c.JSON(http.StatusOK, imgs)
}

// UploadImages stores up to five photos per resource under
// <upload_base>/<resource_id>/, continuing the numeric file sequence.
func (h *AdminHandler) UploadImages(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res, err := h.Resources.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form expected"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one file is required"})
		return
	}
	if len(files) > maxImagesPerResource {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d files per resource", maxImagesPerResource)})
		return
	}

	folder := filepath.Join(config.AppConfig.UploadBase, strconv.FormatUint(uint64(res.ID), 10))
	existing := 0
	if entries, err := os.ReadDir(folder); err == nil {
		existing = len(entries)
	}
	if existing+len(files) > maxImagesPerResource {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("resource %d already has %d of %d images", res.ID, existing, maxImagesPerResource),
		})
		return
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		h.Logger.Error("failed to create image folder", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store files"})
		return
	}

	created := make([]models.Image, 0, len(files))
	for _, fh := range files {
		name, err := nextImageName(folder, filepath.Ext(fh.Filename))
		if err != nil {
			h.Logger.Error("failed to pick image filename", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store files"})
			return
		}
		if err := c.SaveUploadedFile(fh, filepath.Join(folder, name)); err != nil {
			h.Logger.Error("failed to save uploaded image", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store files"})
			return
		}
		img := &models.Image{ResourceID: res.ID, Filename: name, Created: time.Now()}
		if err := h.Resources.CreateImage(img); err != nil {
			h.Logger.Error("failed to record image", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store files"})
			return
		}
		created = append(created, *img)
	}
	c.JSON(http.StatusCreated, created)
}

// nextImageName continues the numeric sequence in folder: 1.jpg, 2.png
// and so on. Non-numeric names are ignored.
func nextImageName(folder, ext string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	next := 1
	for _, e := range entries {
		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if n, err := strconv.Atoi(base); err == nil && n >= next {
			next = n + 1
		}
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%d.%s", next, ext), nil
}

// DeleteImage removes the row and the file, and drops the folder once
// it is empty. Filenames that do not look like plain basenames are left
// on disk.
func (h *AdminHandler) DeleteImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	img, err := h.Resources.GetImage(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	if filepath.Base(img.Filename) == img.Filename {
		folder := filepath.Join(config.AppConfig.UploadBase, strconv.FormatUint(uint64(img.ResourceID), 10))
		if err := os.Remove(filepath.Join(folder, img.Filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			h.Logger.Warn("failed to remove image file", zap.String("filename", img.Filename), zap.Error(err))
		}
		if entries, err := os.ReadDir(folder); err == nil && len(entries) == 0 {
			if err := os.Remove(folder); err != nil {
				h.Logger.Debug("failed to remove empty image folder", zap.Error(err))
			}
		}
	} else {
		h.Logger.Warn("suspicious image filename, keeping file on disk",
			zap.Uint("image_id", img.ID), zap.String("filename", img.Filename))
	}

	if err := h.Resources.DeleteImage(id); err != nil {
		h.Logger.Error("failed to delete image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	list, err := h.Bookings.ListAll(page, perPage)
	if err != nil {
		h.Logger.Error("failed to list bookings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteBooking removes a booking unless it is confirmed with an
// upcoming check-out.
func (h *AdminHandler) DeleteBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	b, err := h.Bookings.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if b.Status == models.StatusConfirmed && b.CheckOut != nil &&
		models.DateOnly(*b.CheckOut).After(models.DateOnly(time.Now())) {
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete a confirmed booking with an upcoming check-out"})
		return
	}
	if err := h.Bookings.Delete(id); err != nil {
		h.Logger.Error("failed to delete booking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete booking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
