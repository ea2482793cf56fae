package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rpggio/ganttline/internal/domain/activity"
	"github.com/rpggio/ganttline/internal/domain/chart"
	"github.com/rpggio/ganttline/internal/domain/project"
	"github.com/rpggio/ganttline/internal/mcp"
	"github.com/rpggio/ganttline/internal/sqlite"
	"github.com/rpggio/ganttline/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is the full HTTP stack over a private in-memory database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Keys     *sqlite.APIKeyRepository
	Token    string
	TenantID string
}

func New(t *testing.T, token, tenantID string) *TestServer {
	t.Helper()

	db, err := sqlite.OpenMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)

	projectRepo := sqlite.NewProjectRepository(db)
	chartRepo := sqlite.NewChartRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	keys := sqlite.NewAPIKeyRepository(db)

	projectSvc := project.NewService(projectRepo, chartRepo, activityRepo, nil)
	chartSvc := chart.NewService(chartRepo, projectSvc, activityRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)

	handler := mcp.NewHandler(mcp.Services{
		Projects: projectSvc,
		Charts:   chartSvc,
		Activity: activitySvc,
	})

	server := httptest.NewServer(transport.NewServer(handler,
		transport.AuthMiddleware(keys),
		transport.WithRenderer(chartSvc),
	))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Keys:     keys,
		Token:    token,
		TenantID: tenantID,
	}

	require.NoError(t, ts.AddAPIKey(token, tenantID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, tenantID string) error {
	return ts.Keys.Add(context.Background(), token, tenantID, "test key")
}

// Call posts one JSON-RPC request to /rpc with token and decodes the response.
func (ts *TestServer) Call(t *testing.T, token, method string, params any) transport.Response {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out transport.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// Decode re-encodes a JSON-RPC result into out.
func Decode(t *testing.T, result any, out any) {
	t.Helper()
	data, err := json.Marshal(result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}
