package controller

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"funnelboard/crm"
	"funnelboard/funnel"
	"funnelboard/models"
	"funnelboard/utils"
)

// recentActivityLimit caps the activity feed on the project dashboard.
const recentActivityLimit = 20

// topPerformerCount is how many owners the leaderboard card shows.
const topPerformerCount = 5

type ProspectController struct {
	CRM           crm.Service
	Opt           funnel.Options
	ActivityLimit int
	Logger        *logrus.Entry
}

func NewProspectController(svc crm.Service, opt funnel.Options, activityLimit int, logger *logrus.Logger) *ProspectController {
	return &ProspectController{
		CRM:           svc,
		Opt:           opt,
		ActivityLimit: activityLimit,
		Logger:        logger.WithField("component", "prospects"),
	}
}

// GetProjectProspects returns the drill-down roster with each contact's
// status resolved from its latest activity.
func (pc *ProspectController) GetProjectProspects(c *fiber.Ctx) error {
	projectID := c.Params("id")

	contacts, activities, err := fetchProjectData(c.UserContext(), pc.CRM, projectID, pc.ActivityLimit)
	if err != nil {
		pc.Logger.WithError(err).WithField("project_id", projectID).Warn("could not fetch project data, serving empty roster")
		contacts, activities = nil, nil
	}

	return c.JSON(utils.SuccessResponse(funnel.ProspectRoster(contacts, activities)))
}

// GetProspectAnalytics assembles the full per-project dashboard payload:
// KPI cards, pipeline distribution, all three channel funnels, the recent
// activity feed, the roster, and per-owner performance.
func (pc *ProspectController) GetProspectAnalytics(c *fiber.Ctx) error {
	projectID := c.Query("projectId")
	if projectID == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "projectId is required", nil)
	}

	contacts, activities, err := fetchProjectData(c.UserContext(), pc.CRM, projectID, pc.ActivityLimit)
	if err != nil {
		pc.Logger.WithError(err).WithField("project_id", projectID).Warn("could not fetch project data, serving empty analytics")
		contacts, activities = nil, nil
	}

	funnels := classifyAll(projectID, contacts, activities, pc.Opt)
	team := AggregatePerformance(activities, time.Time{})

	payload := models.ProspectAnalytics{
		Overview:      BuildOverview(contacts, activities, funnels["coldCalling"]),
		Pipeline:      BuildPipeline(contacts),
		Funnels:       funnels,
		Activities:    recentActivities(activities, recentActivityLimit),
		Prospects:     funnel.ProspectRoster(contacts, activities),
		Team:          team,
		TopPerformers: TopPerformers(team, topPerformerCount),
	}

	return c.JSON(utils.SuccessResponse(payload))
}

// recentActivities returns the newest activities first without mutating the
// fetched slice.
func recentActivities(activities []models.Activity, limit int) []models.Activity {
	recent := make([]models.Activity, len(activities))
	copy(recent, activities)
	sort.SliceStable(recent, func(i, j int) bool {
		return funnel.ActivityDate(&recent[i]).After(funnel.ActivityDate(&recent[j]))
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}
