package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
)

// TaxonomyHandler serves categories, skills, cities and specialties.
// Categories and skills are admin-moderated; public lists only show
// approved rows.
type TaxonomyHandler struct {
	DB *gorm.DB
}

func NewTaxonomyHandler(db *gorm.DB) *TaxonomyHandler {
	return &TaxonomyHandler{DB: db}
}

func (h *TaxonomyHandler) GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.DB.
		Where("status = ?", models.ApprovalApproved).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return fail500(c, "Failed to load categories", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}

func (h *TaxonomyHandler) GetSkills(c *fiber.Ctx) error {
	var skills []models.Skill
	if err := h.DB.
		Where("status = ?", models.ApprovalApproved).
		Order("name ASC").
		Find(&skills).Error; err != nil {
		return fail500(c, "Failed to load skills", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    skills,
	})
}

func (h *TaxonomyHandler) GetCities(c *fiber.Ctx) error {
	var cities []models.City
	if err := h.DB.Order("name ASC").Find(&cities).Error; err != nil {
		return fail500(c, "Failed to load cities", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    cities,
	})
}

func (h *TaxonomyHandler) GetSpecialties(c *fiber.Ctx) error {
	var specialties []models.Specialty
	if err := h.DB.Order("name ASC").Find(&specialties).Error; err != nil {
		return fail500(c, "Failed to load specialties", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    specialties,
	})
}

// ===== admin =====

type nameReq struct {
	Name       string `json:"name"`
	CategoryID *uint  `json:"category_id"`
}

func (h *TaxonomyHandler) AdminCreateCategory(c *fiber.Ctx) error {
	var req nameReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fail400(c, "name is required")
	}

	// admin-created entries skip the moderation queue
	cat := models.Category{Name: name, Status: models.ApprovalApproved}
	if err := h.DB.Create(&cat).Error; err != nil {
		if isUniqueViolation(err) {
			return fail400(c, "Category already exists")
		}
		return fail500(c, "Failed to save category", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    cat,
	})
}

func (h *TaxonomyHandler) AdminSetCategoryStatus(c *fiber.Ctx) error {
	var req approvalReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}
	status := models.ApprovalStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status != models.ApprovalApproved && status != models.ApprovalRejected {
		return fail400(c, "status must be approved or rejected")
	}

	var cat models.Category
	if err := h.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
		return fail404(c, "Category not found")
	}

	cat.Status = status
	cat.UpdatedAt = time.Now()
	if err := h.DB.Save(&cat).Error; err != nil {
		return fail500(c, "Failed to update category", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    cat,
	})
}

func (h *TaxonomyHandler) AdminCreateSkill(c *fiber.Ctx) error {
	var req nameReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fail400(c, "name is required")
	}

	skill := models.Skill{Name: name, Status: models.ApprovalApproved}
	if err := h.DB.Create(&skill).Error; err != nil {
		if isUniqueViolation(err) {
			return fail400(c, "Skill already exists")
		}
		return fail500(c, "Failed to save skill", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    skill,
	})
}

func (h *TaxonomyHandler) AdminSetSkillStatus(c *fiber.Ctx) error {
	var req approvalReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}
	status := models.ApprovalStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status != models.ApprovalApproved && status != models.ApprovalRejected {
		return fail400(c, "status must be approved or rejected")
	}

	var skill models.Skill
	if err := h.DB.First(&skill, "id = ?", c.Params("id")).Error; err != nil {
		return fail404(c, "Skill not found")
	}

	skill.Status = status
	skill.UpdatedAt = time.Now()
	if err := h.DB.Save(&skill).Error; err != nil {
		return fail500(c, "Failed to update skill", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    skill,
	})
}

func (h *TaxonomyHandler) AdminCreateCity(c *fiber.Ctx) error {
	var req nameReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fail400(c, "name is required")
	}

	city := models.City{Name: name}
	if err := h.DB.Create(&city).Error; err != nil {
		if isUniqueViolation(err) {
			return fail400(c, "City already exists")
		}
		return fail500(c, "Failed to save city", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    city,
	})
}

func (h *TaxonomyHandler) AdminCreateSpecialty(c *fiber.Ctx) error {
	var req nameReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fail400(c, "name is required")
	}

	sp := models.Specialty{Name: name, CategoryID: req.CategoryID}
	if err := h.DB.Create(&sp).Error; err != nil {
		return fail500(c, "Failed to save specialty", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    sp,
	})
}
