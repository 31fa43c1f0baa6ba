package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"funnelboard/crm"
	"funnelboard/funnel"
	"funnelboard/models"
	"funnelboard/utils"
)

type FunnelController struct {
	CRM           crm.Service
	Opt           funnel.Options
	ActivityLimit int
	Logger        *logrus.Entry
}

func NewFunnelController(svc crm.Service, opt funnel.Options, activityLimit int, logger *logrus.Logger) *FunnelController {
	return &FunnelController{
		CRM:           svc,
		Opt:           opt,
		ActivityLimit: activityLimit,
		Logger:        logger.WithField("component", "funnel"),
	}
}

// StageConversion is the clamped step-down rate between two adjacent stages.
type StageConversion struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}

// GetProjectFunnel classifies one project's contacts for a channel and
// variant. A CRM outage renders as an empty funnel, not an error page.
func (fc *FunnelController) GetProjectFunnel(c *fiber.Ctx) error {
	projectID := c.Params("id")

	channel, ok := parseChannel(c.Query("channel", "call"))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "channel must be one of: call, email, linkedin", nil)
	}
	variant, ok := parseVariant(c.Query("variant"))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "variant must be one of: v1, v2", nil)
	}

	contacts, activities, err := fetchProjectData(c.UserContext(), fc.CRM, projectID, fc.ActivityLimit)
	if err != nil {
		fc.Logger.WithError(err).WithField("project_id", projectID).Warn("could not fetch project data, serving empty funnel")
		contacts, activities = nil, nil
	}

	result := classify(projectID, contacts, activities, channel, variant, fc.Opt)

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"funnel":      result,
		"conversions": stageConversions(result),
	}))
}

func stageConversions(r *models.FunnelResult) []StageConversion {
	conversions := make([]StageConversion, 0, len(r.Stages))
	for i := 1; i < len(r.Stages); i++ {
		conversions = append(conversions, StageConversion{
			From: r.Stages[i-1].Key,
			To:   r.Stages[i].Key,
			Rate: utils.Rate(r.Stages[i].Count, r.Stages[i-1].Count),
		})
	}
	return conversions
}
