package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/utils"
)

type GigHandler struct {
	DB           *gorm.DB
	UploadDir    string
	IDEncryptKey string
}

func NewGigHandler(db *gorm.DB, uploadDir, idEncryptKey string) *GigHandler {
	return &GigHandler{DB: db, UploadDir: uploadDir, IDEncryptKey: idEncryptKey}
}

type GigReq struct {
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Price         int64    `json:"price"`
	DeliveryDays  int      `json:"delivery_days"`
	RevisionCount int      `json:"revision_count"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	Gallery       []string `json:"gallery"`
	Status        string   `json:"status"` // draft / published
}

func (h *GigHandler) Create(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req GigReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}

	errs := FieldErrors{}
	if strings.TrimSpace(req.Title) == "" {
		errs.Add("title", "Title is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		errs.Add("category", "Category is required")
	}
	if req.Price <= 0 {
		errs.Add("price", "Price must be greater than zero")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	status := models.GigStatus(req.Status)
	if status == "" {
		status = models.GigStatusDraft
	}
	if status != models.GigStatusDraft && status != models.GigStatusPublished {
		return fail400(c, "status must be draft or published")
	}

	gallery := req.Gallery
	if gallery == nil {
		gallery = []string{}
	}
	galleryJSON, err := json.Marshal(gallery)
	if err != nil {
		return fail500(c, "Failed to encode gallery", err)
	}

	gig := models.Gig{
		CreatedBy:     userID,
		Title:         strings.TrimSpace(req.Title),
		Category:      strings.TrimSpace(req.Category),
		Description:   req.Description,
		Price:         req.Price,
		DeliveryDays:  req.DeliveryDays,
		RevisionCount: req.RevisionCount,
		ThumbnailURL:  req.ThumbnailURL,
		Gallery:       datatypes.JSON(galleryJSON),
		Status:        status,
	}

	if err := h.DB.Create(&gig).Error; err != nil {
		return fail500(c, "Failed to save gig", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Gig saved",
		"data": fiber.Map{
			"id":       gig.ID,
			"title":    gig.Title,
			"category": gig.Category,
			"status":   gig.Status,
		},
	})
}

func (h *GigHandler) ListMine(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var gigs []models.Gig
	if err := h.DB.
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&gigs).Error; err != nil {
		return fail500(c, "Failed to load gigs", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    gigs,
	})
}

func (h *GigHandler) GetOne(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var gig models.Gig
	if err := h.DB.First(&gig, "id = ? AND created_by = ?", c.Params("id"), userID).Error; err != nil {
		return fail404(c, "Gig not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    gig,
	})
}

func (h *GigHandler) Update(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var gig models.Gig
	if err := h.DB.First(&gig, "id = ? AND created_by = ?", c.Params("id"), userID).Error; err != nil {
		return fail404(c, "Gig not found")
	}

	var req GigReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}

	if req.Title != "" {
		gig.Title = strings.TrimSpace(req.Title)
	}
	if req.Category != "" {
		gig.Category = strings.TrimSpace(req.Category)
	}
	if req.Description != "" {
		gig.Description = req.Description
	}
	if req.Price > 0 {
		gig.Price = req.Price
	}
	if req.DeliveryDays > 0 {
		gig.DeliveryDays = req.DeliveryDays
	}
	if req.RevisionCount > 0 {
		gig.RevisionCount = req.RevisionCount
	}
	if req.ThumbnailURL != "" {
		gig.ThumbnailURL = req.ThumbnailURL
	}
	if req.Gallery != nil {
		galleryJSON, err := json.Marshal(req.Gallery)
		if err != nil {
			return fail500(c, "Failed to encode gallery", err)
		}
		gig.Gallery = datatypes.JSON(galleryJSON)
	}
	if req.Status != "" {
		status := models.GigStatus(req.Status)
		if status != models.GigStatusDraft && status != models.GigStatusPublished {
			return fail400(c, "status must be draft or published")
		}
		gig.Status = status
	}
	gig.UpdatedAt = time.Now()

	if err := h.DB.Save(&gig).Error; err != nil {
		return fail500(c, "Failed to update gig", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Gig updated",
		"data":    gig,
	})
}

func (h *GigHandler) Delete(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var gig models.Gig
	if err := h.DB.
		Where("id = ? AND created_by = ?", c.Params("id"), userID).
		First(&gig).Error; err != nil {
		return fail404(c, "Gig not found")
	}

	if err := h.DB.Delete(&gig).Error; err != nil {
		return fail500(c, "Failed to delete gig", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Gig deleted",
	})
}

// UploadImage stores a gig image (thumbnail or gallery) and returns its
// public URL; the client attaches it to the gig via Create/Update.
func (h *GigHandler) UploadImage(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return fail400(c, "image is required (multipart field: image)")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return fail400(c, "unsupported image format")
	}

	dir := filepath.Join(h.UploadDir, "gigs", userID.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail500(c, "Failed to create upload dir", err)
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	dst := filepath.Join(dir, filename)

	if err := c.SaveFile(file, dst); err != nil {
		return fail500(c, "Failed to save file", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"url":     fmt.Sprintf("/uploads/gigs/%s/%s", userID.String(), filename),
	})
}

// ListPublic returns published gigs with filters, sorting and pagination.
// Numeric IDs leave the API encrypted.
func (h *GigHandler) ListPublic(c *fiber.Ctx) error {
	qSearch := c.Query("q")
	category := c.Query("cat")
	minPrice := c.QueryInt("min", 0)
	maxPrice := c.QueryInt("max", 0)
	sortParam := c.Query("sort") // latest | price_low | price_high

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	applyFilters := func(q *gorm.DB) *gorm.DB {
		q = q.Where("status = ?", models.GigStatusPublished)
		if qSearch != "" {
			q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(qSearch)+"%")
		}
		if category != "" {
			q = q.Where("category = ?", category)
		}
		if minPrice > 0 {
			q = q.Where("price >= ?", minPrice)
		}
		if maxPrice > 0 {
			q = q.Where("price <= ?", maxPrice)
		}
		return q
	}

	var totalItems int64
	if err := applyFilters(h.DB.Model(&models.Gig{})).Count(&totalItems).Error; err != nil {
		return fail500(c, "Failed to count gigs", err)
	}

	q := applyFilters(h.DB.Model(&models.Gig{}))
	switch sortParam {
	case "price_low":
		q = q.Order("price ASC")
	case "price_high":
		q = q.Order("price DESC")
	default:
		q = q.Order("created_at DESC")
	}

	var gigs []models.Gig
	if err := q.Limit(limit).Offset(offset).Find(&gigs).Error; err != nil {
		return fail500(c, "Failed to load gigs", err)
	}

	out := make([]fiber.Map, 0, len(gigs))
	for _, g := range gigs {
		encID, err := utils.EncryptID(g.ID, h.IDEncryptKey)
		if err != nil {
			return fail500(c, "Failed to encode gig id", err)
		}

		seller := fiber.Map{"name": "Freelancer", "image_path": ""}
		var fp models.FreelancerProfile
		if err := h.DB.Where("user_id = ?", g.CreatedBy).First(&fp).Error; err == nil {
			if fp.Title != "" {
				seller["name"] = fp.Title
			}
			seller["image_path"] = fp.ImagePath
		}

		out = append(out, fiber.Map{
			"id":            encID,
			"title":         g.Title,
			"category":      g.Category,
			"price":         g.Price,
			"delivery_days": g.DeliveryDays,
			"thumbnail":     g.ThumbnailURL,
			"seller":        seller,
			"created_at":    g.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
		"meta": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_items": totalItems,
			"total_pages": int(math.Ceil(float64(totalItems) / float64(limit))),
		},
	})
}

func (h *GigHandler) GetDetail(c *fiber.Ctx) error {
	rawID, err := utils.DecryptID(c.Params("id"), h.IDEncryptKey)
	if err != nil {
		return fail400(c, "Invalid gig ID")
	}

	var gig models.Gig
	if err := h.DB.First(&gig, "id = ?", rawID).Error; err != nil {
		return fail404(c, "Gig not found")
	}
	if gig.Status != models.GigStatusPublished {
		return fail404(c, "Gig not published")
	}

	var gallery []string
	if len(gig.Gallery) > 0 {
		_ = json.Unmarshal(gig.Gallery, &gallery)
	}

	seller := fiber.Map{"id": gig.CreatedBy, "name": "Freelancer", "image_path": ""}
	var fp models.FreelancerProfile
	if err := h.DB.Where("user_id = ?", gig.CreatedBy).First(&fp).Error; err == nil {
		if fp.Title != "" {
			seller["name"] = fp.Title
		}
		seller["image_path"] = fp.ImagePath
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             gig.ID,
			"title":          gig.Title,
			"category":       gig.Category,
			"description":    gig.Description,
			"price":          gig.Price,
			"delivery_days":  gig.DeliveryDays,
			"revision_count": gig.RevisionCount,
			"thumbnail":      gig.ThumbnailURL,
			"gallery":        gallery,
			"seller":         seller,
			"created_at":     gig.CreatedAt,
			"updated_at":     gig.UpdatedAt,
		},
	})
}
