// Package crm is the read-only client for the upstream CRM REST API. Every
// endpoint wraps its payload in a {success, data} envelope; an unsuccessful
// envelope is treated as "no data", not as a failure.
package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"funnelboard/metrics"
	"funnelboard/models"
)

// Service is what the controllers and workers consume; it is satisfied by
// Client and by test fakes.
type Service interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	GetProjectContacts(ctx context.Context, projectID string) ([]models.Contact, error)
	GetProjectActivities(ctx context.Context, projectID string, limit int) ([]models.Activity, error)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logrus.Entry
}

func NewClient(baseURL, token string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.WithField("component", "crm"),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// get fetches one endpoint and decodes the envelope. A transport error is
// returned to the caller; an unsuccessful or malformed envelope yields a nil
// payload and a logged warning so handlers render an empty state. endpoint is
// the static name used as the metrics label; the concrete path embeds project
// IDs and would mint a new time series per project.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CRMFetches.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("failed to reach CRM API: %w", err)
	}
	defer resp.Body.Close()
	metrics.CRMFetchDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CRMFetches.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("failed to read CRM response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.CRMFetches.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		c.logger.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("CRM API returned non-200, treating as empty dataset")
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		metrics.CRMFetches.WithLabelValues(endpoint, "malformed").Inc()
		c.logger.WithField("path", path).WithError(err).Warn("CRM API returned malformed envelope, treating as empty dataset")
		return nil, nil
	}
	if !env.Success {
		metrics.CRMFetches.WithLabelValues(endpoint, "unsuccessful").Inc()
		c.logger.WithFields(logrus.Fields{
			"path":  path,
			"error": env.Error,
		}).Warn("CRM API reported success=false, treating as empty dataset")
		return nil, nil
	}

	metrics.CRMFetches.WithLabelValues(endpoint, "ok").Inc()
	return env.Data, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	data, err := c.get(ctx, "projects", "/projects", nil)
	if err != nil || data == nil {
		return nil, err
	}
	var projects []models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		c.logger.WithError(err).Warn("could not decode project list")
		return nil, nil
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	data, err := c.get(ctx, "projects", "/projects/"+url.PathEscape(projectID), nil)
	if err != nil || data == nil {
		return nil, err
	}
	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		c.logger.WithError(err).Warn("could not decode project")
		return nil, nil
	}
	return &project, nil
}

func (c *Client) GetProjectContacts(ctx context.Context, projectID string) ([]models.Contact, error) {
	data, err := c.get(ctx, "contacts", "/projects/"+url.PathEscape(projectID)+"/project-contacts", nil)
	if err != nil || data == nil {
		return nil, err
	}
	var contacts []models.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		c.logger.WithError(err).Warn("could not decode contacts")
		return nil, nil
	}
	return contacts, nil
}

func (c *Client) GetProjectActivities(ctx context.Context, projectID string, limit int) ([]models.Activity, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	data, err := c.get(ctx, "activities", "/activities/project/"+url.PathEscape(projectID), query)
	if err != nil || data == nil {
		return nil, err
	}
	var activities []models.Activity
	if err := json.Unmarshal(data, &activities); err != nil {
		c.logger.WithError(err).Warn("could not decode activities")
		return nil, nil
	}
	return activities, nil
}
