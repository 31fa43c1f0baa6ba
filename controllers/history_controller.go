package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"funnelboard/models"
	"funnelboard/utils"
)

type HistoryController struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewHistoryController(db *gorm.DB, logger *logrus.Logger) *HistoryController {
	return &HistoryController{
		DB:     db,
		Logger: logger.WithField("component", "history"),
	}
}

// GetFunnelHistory serves the persisted snapshot series for trend charts.
// The upstream CRM only knows the present, so this reads the worker's rows.
func (hc *HistoryController) GetFunnelHistory(c *fiber.Ctx) error {
	projectID := c.Params("id")

	channel, ok := parseChannel(c.Query("channel", "call"))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "channel must be one of: call, email, linkedin", nil)
	}
	days := c.QueryInt("days", 30)
	if days < 1 || days > 365 {
		days = 30
	}

	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	var rows []models.FunnelSnapshot
	if err := hc.DB.
		Where("project_id = ? AND channel = ? AND captured_at >= ?", projectID, string(channel), cutoff).
		Order("captured_at ASC").
		Find(&rows).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load funnel history", err)
	}

	history := models.FunnelHistory{
		ProjectID: projectID,
		Channel:   string(channel),
		Days:      days,
		Series:    make(map[string][]models.HistoryPoint),
	}
	for _, row := range rows {
		history.Series[row.StageKey] = append(history.Series[row.StageKey], models.HistoryPoint{
			CapturedAt: row.CapturedAt,
			Count:      row.ContactCount,
		})
	}

	return c.JSON(utils.SuccessResponse(history))
}
