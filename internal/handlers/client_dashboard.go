package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
)

type ClientDashboardHandler struct {
	DB *gorm.DB
}

func NewClientDashboardHandler(db *gorm.DB) *ClientDashboardHandler {
	return &ClientDashboardHandler{DB: db}
}

// GetStats summarizes the caller's job-posting activity. Each metric is
// its own unordered read with no transactional isolation: under
// concurrent writes the counts may come from different snapshots, which
// is fine for a dashboard and must not be reused for billing.
func (h *ClientDashboardHandler) GetStats(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "no-store")

	var totalJob int64
	if err := h.DB.Model(&models.JobPost{}).
		Where("buyer_id = ?", userID).
		Count(&totalJob).Error; err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}

	var pendingOrders int64
	if err := h.DB.Model(&models.JobPost{}).
		Where("buyer_id = ?", userID).
		Where("approval_status = ?", models.ApprovalPending).
		Count(&pendingOrders).Error; err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}

	var activeOrders int64
	if err := h.DB.Model(&models.JobPost{}).
		Where("buyer_id = ?", userID).
		Where("approval_status = ?", models.ApprovalApproved).
		Where("status = ?", models.JobPostActive).
		Count(&activeOrders).Error; err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}

	var completedOrders int64
	if err := h.DB.Model(&models.JobPost{}).
		Where("buyer_id = ?", userID).
		Where("status = ?", models.JobPostCompleted).
		Count(&completedOrders).Error; err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}

	totalApplications, err := h.countApplications(userID)
	if err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}

	// earnings/balance/rating are placeholders on the client side; they
	// stay in the payload as literal zeros
	return c.JSON(fiber.Map{
		"totalEarnings":     0,
		"payoutAmount":      0,
		"balance":           0,
		"totalService":      0,
		"totalJob":          totalJob,
		"totalOrder":        0,
		"completedOrders":   completedOrders,
		"activeOrders":      activeOrders,
		"pendingOrders":     pendingOrders,
		"averageRating":     0,
		"ratingCount":       0,
		"totalApplications": totalApplications,
	})
}

// countApplications counts applications against the buyer's posts. A
// buyer with no posts short-circuits to 0 so no IN-empty-set query is
// ever issued against job_applications.
func (h *ClientDashboardHandler) countApplications(buyerID uuid.UUID) (int64, error) {
	var postIDs []uuid.UUID
	if err := h.DB.Model(&models.JobPost{}).
		Where("buyer_id = ?", buyerID).
		Pluck("id", &postIDs).Error; err != nil {
		return 0, err
	}

	if len(postIDs) == 0 {
		return 0, nil
	}

	var total int64
	if err := h.DB.Model(&models.JobApplication{}).
		Where("job_post_id IN ?", postIDs).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
