package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
)

type JobPostHandler struct {
	DB *gorm.DB
}

func NewJobPostHandler(db *gorm.DB) *JobPostHandler {
	return &JobPostHandler{DB: db}
}

type JobPostReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	City        string `json:"city"`
	Budget      int64  `json:"budget"`
}

// Create stores a new post awaiting admin approval.
func (h *JobPostHandler) Create(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req JobPostReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}

	errs := FieldErrors{}
	if strings.TrimSpace(req.Title) == "" {
		errs.Add("title", "Title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		errs.Add("description", "Description is required")
	}
	if req.Budget <= 0 {
		errs.Add("budget", "Budget must be greater than zero")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	post := models.JobPost{
		BuyerID:        userID,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Category:       strings.TrimSpace(req.Category),
		City:           strings.TrimSpace(req.City),
		Budget:         req.Budget,
		ApprovalStatus: models.ApprovalPending,
		Status:         models.JobPostActive,
	}

	if err := h.DB.Create(&post).Error; err != nil {
		return fail500(c, "Failed to save job post", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Job post submitted for approval",
		"data":    post,
	})
}

func (h *JobPostHandler) ListMine(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var posts []models.JobPost
	if err := h.DB.
		Where("buyer_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return fail500(c, "Failed to load job posts", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    posts,
	})
}

// ListPublic shows only approved, still-active posts to freelancers.
func (h *JobPostHandler) ListPublic(c *fiber.Ctx) error {
	q := h.DB.Model(&models.JobPost{}).
		Where("approval_status = ?", models.ApprovalApproved).
		Where("status = ?", models.JobPostActive)

	if category := c.Query("cat"); category != "" {
		q = q.Where("category = ?", category)
	}
	if city := c.Query("city"); city != "" {
		q = q.Where("city = ?", city)
	}

	var posts []models.JobPost
	if err := q.Order("created_at DESC").Find(&posts).Error; err != nil {
		return fail500(c, "Failed to load job posts", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    posts,
	})
}

// Complete moves an owned post's lifecycle to completed.
func (h *JobPostHandler) Complete(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var post models.JobPost
	if err := h.DB.First(&post, "id = ? AND buyer_id = ?", c.Params("id"), userID).Error; err != nil {
		return fail404(c, "Job post not found")
	}

	if post.Status == models.JobPostCompleted {
		return fail400(c, "Job post is already completed")
	}

	post.Status = models.JobPostCompleted
	post.UpdatedAt = time.Now()

	if err := h.DB.Save(&post).Error; err != nil {
		return fail500(c, "Failed to update job post", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Job post completed",
		"data":    post,
	})
}

// ===== admin moderation =====

func (h *JobPostHandler) AdminList(c *fiber.Ctx) error {
	q := h.DB.Model(&models.JobPost{})
	if approval := c.Query("approval"); approval != "" {
		q = q.Where("approval_status = ?", approval)
	}

	var posts []models.JobPost
	if err := q.Order("created_at ASC").Find(&posts).Error; err != nil {
		return fail500(c, "Failed to load job posts", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    posts,
	})
}

type approvalReq struct {
	Status string `json:"status"` // approved / rejected
}

func (h *JobPostHandler) AdminSetApproval(c *fiber.Ctx) error {
	var req approvalReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}

	status := models.ApprovalStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status != models.ApprovalApproved && status != models.ApprovalRejected {
		return fail400(c, "status must be approved or rejected")
	}

	var post models.JobPost
	if err := h.DB.First(&post, "id = ?", c.Params("id")).Error; err != nil {
		return fail404(c, "Job post not found")
	}

	post.ApprovalStatus = status
	post.UpdatedAt = time.Now()

	if err := h.DB.Save(&post).Error; err != nil {
		return fail500(c, "Failed to update job post", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Approval status updated",
		"data":    post,
	})
}
