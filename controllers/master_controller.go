package controller

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"funnelboard/crm"
	"funnelboard/funnel"
	"funnelboard/models"
	"funnelboard/utils"
)

// fetchConcurrency bounds parallel CRM calls during cross-project sweeps so
// a big account list doesn't hammer the upstream API.
const fetchConcurrency = 4

type MasterController struct {
	CRM                  crm.Service
	Opt                  funnel.Options
	ActivityLimit        int
	StalledDays          int
	ConnectRateThreshold int
	Logger               *logrus.Entry
}

func NewMasterController(svc crm.Service, opt funnel.Options, activityLimit, stalledDays, connectRateThreshold int, logger *logrus.Logger) *MasterController {
	return &MasterController{
		CRM:                  svc,
		Opt:                  opt,
		ActivityLimit:        activityLimit,
		StalledDays:          stalledDays,
		ConnectRateThreshold: connectRateThreshold,
		Logger:               logger.WithField("component", "master"),
	}
}

// GetMasterDashboard sweeps every project and serves the executive payload:
// totals, rankings, alerts, data quality, the combined channel funnels and
// the follow-up summary. Fetch failures degrade to a partial dashboard.
func (mc *MasterController) GetMasterDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	projects, err := mc.CRM.ListProjects(ctx)
	if err != nil {
		mc.Logger.WithError(err).Warn("could not list projects, serving empty dashboard")
	}

	type projectData struct {
		project    models.Project
		contacts   []models.Contact
		activities []models.Activity
	}
	data := make([]projectData, len(projects))
	for i := range projects {
		data[i].project = projects[i]
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i := range data {
		i := i
		g.Go(func() error {
			contacts, activities, err := fetchProjectData(gctx, mc.CRM, data[i].project.ID, mc.ActivityLimit)
			if err != nil {
				return err
			}
			data[i].contacts = contacts
			data[i].activities = activities
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		mc.Logger.WithError(err).Warn("could not fetch all project data, serving partial dashboard")
	}

	now := time.Now()
	dash := models.MasterDashboard{}

	var allContacts []models.Contact
	var allActivities []models.Activity
	for i := range data {
		d := &data[i]
		callFunnel := classify(d.project.ID, d.contacts, d.activities, funnel.ChannelCall, funnel.VariantCurrent, mc.Opt)

		dash.Rankings = append(dash.Rankings, models.ProjectRanking{
			ProjectID:   d.project.ID,
			ProjectName: d.project.Name,
			Prospects:   len(d.contacts),
			Attempted:   callFunnel.Count(funnel.StageCallsAttempted),
			SQLs:        callFunnel.Count(funnel.StageSQL),
			Wins:        callFunnel.Count(funnel.StageWon),
		})
		dash.Alerts = append(dash.Alerts, EvaluateAlerts(&d.project, d.activities, callFunnel, now, mc.StalledDays, mc.ConnectRateThreshold)...)
		dash.DataQuality.Merge(utils.ScanDataQuality(d.contacts, d.activities))

		allContacts = append(allContacts, d.contacts...)
		allActivities = append(allActivities, d.activities...)
	}

	sort.Slice(dash.Rankings, func(i, j int) bool {
		a, b := dash.Rankings[i], dash.Rankings[j]
		if a.SQLs != b.SQLs {
			return a.SQLs > b.SQLs
		}
		if a.Attempted != b.Attempted {
			return a.Attempted > b.Attempted
		}
		return a.ProjectName < b.ProjectName
	})

	// Contact IDs are globally unique, so the combined funnels can classify
	// the concatenated slices in one pass.
	funnels := classifyAll("all", allContacts, allActivities, mc.Opt)
	dash.ColdCall = funnels["coldCalling"]
	dash.Email = funnels["email"]
	dash.LinkedIn = funnels["linkedin"]
	dash.Executive = BuildOverview(allContacts, allActivities, dash.ColdCall)
	dash.FollowUp = BuildFollowUpSummary(allActivities, now)

	return c.JSON(utils.SuccessResponse(dash))
}
