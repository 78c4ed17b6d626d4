package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
)

// 20% platform fee is withheld from completed-order earnings.
const payoutRate = 0.8

type FreelancerDashboardHandler struct {
	DB *gorm.DB
}

func NewFreelancerDashboardHandler(db *gorm.DB) *FreelancerDashboardHandler {
	return &FreelancerDashboardHandler{DB: db}
}

// GetStats summarizes gig and application activity for the caller. The
// per-status counts need not sum to totalOrder: statuses outside
// pending/active/completed exist and are counted only in the total.
func (h *FreelancerDashboardHandler) GetStats(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "no-store")

	var totalGig int64
	if err := h.DB.Model(&models.Gig{}).
		Where("created_by = ?", userID).
		Count(&totalGig).Error; err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}

	var totalOrder int64
	if err := h.DB.Model(&models.JobApplication{}).
		Where("freelancer_id = ?", userID).
		Count(&totalOrder).Error; err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}

	countByStatus := func(status models.ApplicationStatus) (int64, error) {
		var n int64
		err := h.DB.Model(&models.JobApplication{}).
			Where("freelancer_id = ?", userID).
			Where("status = ?", status).
			Count(&n).Error
		return n, err
	}

	completedOrders, err := countByStatus(models.ApplicationCompleted)
	if err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}
	activeOrders, err := countByStatus(models.ApplicationActive)
	if err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}
	pendingOrders, err := countByStatus(models.ApplicationPending)
	if err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}

	var totalEarnings float64
	if err := h.DB.Model(&models.JobApplication{}).
		Where("freelancer_id = ?", userID).
		Where("status = ?", models.ApplicationCompleted).
		Select("COALESCE(SUM(proposed_price), 0)").
		Scan(&totalEarnings).Error; err != nil {
		return fail500(c, "Failed to load dashboard", err)
	}

	// balance and earnings are the same number until a withdrawal ledger
	// exists
	return c.JSON(fiber.Map{
		"totalGig":        totalGig,
		"totalOrder":      totalOrder,
		"completedOrders": completedOrders,
		"activeOrders":    activeOrders,
		"pendingOrders":   pendingOrders,
		"totalEarnings":   totalEarnings,
		"payoutAmount":    totalEarnings * payoutRate,
		"balance":         totalEarnings,
		"averageRating":   0,
		"ratingCount":     0,
	})
}
