package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
)

type ApplicationHandler struct {
	DB *gorm.DB
}

func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{DB: db}
}

type ApplyReq struct {
	ProposedPrice float64 `json:"proposed_price"`
	CoverLetter   string  `json:"cover_letter"`
}

// Apply creates a proposal against an approved, active job post. One
// application per freelancer per post.
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req ApplyReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}
	if req.ProposedPrice <= 0 {
		return fail400(c, "proposed_price must be greater than zero")
	}

	var post models.JobPost
	if err := h.DB.First(&post, "id = ?", c.Params("id")).Error; err != nil {
		return fail404(c, "Job post not found")
	}
	if post.ApprovalStatus != models.ApprovalApproved || post.Status != models.JobPostActive {
		return fail400(c, "Job post is not open for applications")
	}
	if post.BuyerID == userID {
		return fail400(c, "Cannot apply to your own job post")
	}

	var existing int64
	if err := h.DB.Model(&models.JobApplication{}).
		Where("job_post_id = ? AND freelancer_id = ?", post.ID, userID).
		Count(&existing).Error; err != nil {
		return fail500(c, "Failed to check existing application", err)
	}
	if existing > 0 {
		return fail400(c, "You already applied to this job post")
	}

	app := models.JobApplication{
		JobPostID:     post.ID,
		FreelancerID:  userID,
		ProposedPrice: req.ProposedPrice,
		CoverLetter:   req.CoverLetter,
		Status:        models.ApplicationPending,
	}

	if err := h.DB.Create(&app).Error; err != nil {
		return fail500(c, "Failed to save application", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Application submitted",
		"data":    app,
	})
}

func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var apps []models.JobApplication
	if err := h.DB.
		Preload("JobPost").
		Where("freelancer_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return fail500(c, "Failed to load applications", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    apps,
	})
}

// ListForJobPost lists proposals on one of the caller's own posts.
func (h *ApplicationHandler) ListForJobPost(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var post models.JobPost
	if err := h.DB.First(&post, "id = ? AND buyer_id = ?", c.Params("id"), userID).Error; err != nil {
		return fail404(c, "Job post not found")
	}

	var apps []models.JobApplication
	if err := h.DB.
		Preload("Freelancer").
		Where("job_post_id = ?", post.ID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return fail500(c, "Failed to load applications", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    apps,
	})
}

type applicationStatusReq struct {
	Status string `json:"status"`
}

// allowed transitions, keyed by current status
var applicationTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationPending: {models.ApplicationActive, models.ApplicationRejected},
	models.ApplicationActive:  {models.ApplicationCompleted},
}

// SetStatus lets the owning client move a proposal through its
// lifecycle: pending -> active -> completed, or pending -> rejected.
func (h *ApplicationHandler) SetStatus(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req applicationStatusReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}
	next := models.ApplicationStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	var app models.JobApplication
	if err := h.DB.Preload("JobPost").First(&app, "id = ?", c.Params("id")).Error; err != nil {
		return fail404(c, "Application not found")
	}
	if app.JobPost == nil || app.JobPost.BuyerID != userID {
		return fail404(c, "Application not found")
	}

	allowed := false
	for _, s := range applicationTransitions[app.Status] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return fail400(c, "Invalid status transition")
	}

	app.Status = next
	app.UpdatedAt = time.Now()

	if err := h.DB.Save(&app).Error; err != nil {
		return fail500(c, "Failed to update application", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Application status updated",
		"data":    app,
	})
}
