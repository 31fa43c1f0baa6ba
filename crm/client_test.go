package crm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funnelboard/metrics"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-token", 5*time.Second, newTestLogger()), server
}

func TestGetProjectContacts_Success(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p1/project-contacts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"_id":"A","name":"Ada"},{"_id":"B","name":"Bo"}]}`))
	}))

	contacts, err := client.GetProjectContacts(context.Background(), "p1")

	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Ada", contacts[0].Name)
}

func TestGetProjectActivities_LimitQuery(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/project/p1", r.URL.Path)
		assert.Equal(t, "500", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"success":true,"data":[{"_id":"a1","type":"call","contactId":"A"}]}`))
	}))

	activities, err := client.GetProjectActivities(context.Background(), "p1", 500)

	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "call", activities[0].Type)
}

func TestGet_UnsuccessfulEnvelopeIsEmptyNotError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"project not found"}`))
	}))

	contacts, err := client.GetProjectContacts(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, contacts)
}

func TestGet_Non200IsEmptyNotError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	projects, err := client.ListProjects(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, projects)
}

func TestGet_MalformedBodyIsEmptyNotError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	}))

	activities, err := client.GetProjectActivities(context.Background(), "p1", 0)

	assert.NoError(t, err)
	assert.Nil(t, activities)
}

func TestGet_MetricsUseStaticEndpointLabels(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))

	contactsOK := metrics.CRMFetches.WithLabelValues("contacts", "ok")
	before := testutil.ToFloat64(contactsOK)

	// Two different projects must land on the same time series: labelling by
	// the raw path would mint one series per project ID.
	_, err := client.GetProjectContacts(context.Background(), "p1")
	require.NoError(t, err)
	_, err = client.GetProjectContacts(context.Background(), "p2")
	require.NoError(t, err)

	assert.Equal(t, before+2, testutil.ToFloat64(contactsOK))
}

func TestGet_TransportErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // immediately, so the dial fails
	client := NewClient(server.URL, "", time.Second, newTestLogger())

	_, err := client.GetProject(context.Background(), "p1")

	assert.Error(t, err)
}
