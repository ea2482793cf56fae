package testserver

import (
	"io"
	"net/http"
	"testing"

	"github.com/rpggio/ganttline/internal/mcp"
	"github.com/rpggio/ganttline/internal/transport"
	"github.com/stretchr/testify/require"
)

func TestServer_ChartWorkflow(t *testing.T) {
	ts := New(t, "token-a", "tenant-a")

	resp := ts.Call(t, ts.Token, "create_project", map[string]any{
		"name": "Terminal", "tag": "JFK", "start_date": "2025-01-15", "end_date": "2025-03-15",
	})
	require.Nil(t, resp.Error)
	var terminal mcp.ProjectResponse
	Decode(t, resp.Result, &terminal)
	require.NotEmpty(t, terminal.ID)

	resp = ts.Call(t, ts.Token, "create_project", map[string]any{
		"name": "Runway", "tag": "LAX", "start_date": "2025-02-01", "end_date": "2025-05-30",
	})
	require.Nil(t, resp.Error)

	resp = ts.Call(t, ts.Token, "get_timeline", map[string]any{})
	require.Nil(t, resp.Error)
	var view mcp.TimelineResponse
	Decode(t, resp.Result, &view)
	require.Equal(t, "week", view.Granularity)
	require.Len(t, view.Buckets, 20)
	require.Equal(t, "Jan 12", view.Buckets[0].Label)
	require.Equal(t, mcp.BarResponse{ProjectID: terminal.ID, StartIndex: 0, EndIndex: 9, Left: 0, Width: 1000}, view.Bars[0])
	require.Equal(t, 2, view.Bars[1].StartIndex)
	require.Equal(t, 19, view.Bars[1].EndIndex)

	resp = ts.Call(t, ts.Token, "update_settings", map[string]any{"granularity": "month", "column_width": 40})
	require.Nil(t, resp.Error)

	resp = ts.Call(t, ts.Token, "get_timeline", nil)
	require.Nil(t, resp.Error)
	Decode(t, resp.Result, &view)
	labels := make([]string, 0, len(view.Buckets))
	for _, b := range view.Buckets {
		labels = append(labels, b.Label)
	}
	require.Equal(t, []string{"Jan 2025", "Feb 2025", "Mar 2025", "Apr 2025", "May 2025"}, labels)
	require.Equal(t, float64(200), view.Width)

	resp = ts.Call(t, ts.Token, "get_recent_activity", map[string]any{"type": "settings_updated"})
	require.Nil(t, resp.Error)
	var history mcp.GetRecentActivityResponse
	Decode(t, resp.Result, &history)
	require.Len(t, history.Activity, 1)
}

func TestServer_TenantIsolation(t *testing.T) {
	ts := New(t, "token-a", "tenant-a")
	require.NoError(t, ts.AddAPIKey("token-b", "tenant-b"))

	resp := ts.Call(t, "token-a", "create_project", map[string]any{
		"name": "Terminal", "start_date": "2025-01-15", "end_date": "2025-03-15",
	})
	require.Nil(t, resp.Error)

	resp = ts.Call(t, "token-b", "list_projects", nil)
	require.Nil(t, resp.Error)
	var listed mcp.ListProjectsResponse
	Decode(t, resp.Result, &listed)
	require.Empty(t, listed.Projects)
}

func TestServer_Errors(t *testing.T) {
	ts := New(t, "token-a", "tenant-a")

	resp := ts.Call(t, ts.Token, "update_settings", map[string]any{"column_width": 500})
	require.NotNil(t, resp.Error)
	require.Equal(t, transport.CodeApplication, resp.Error.Code)
	var data transport.ErrorData
	Decode(t, resp.Error.Data, &data)
	require.Equal(t, "INVALID_SETTINGS", data.Code)

	resp = ts.Call(t, ts.Token, "get_project", map[string]any{"id": "missing"})
	require.NotNil(t, resp.Error)
	Decode(t, resp.Error.Data, &data)
	require.Equal(t, "PROJECT_NOT_FOUND", data.Code)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer wrong")
	httpResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	httpResp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, httpResp.StatusCode)
}

func TestServer_ChartSVG(t *testing.T) {
	ts := New(t, "token-a", "tenant-a")

	resp := ts.Call(t, ts.Token, "create_project", map[string]any{
		"name": "Terminal", "tag": "JFK", "start_date": "2025-01-15", "end_date": "2025-03-15",
	})
	require.Nil(t, resp.Error)

	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+"/chart.svg?granularity=month", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	httpResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer httpResp.Body.Close()
	require.Equal(t, http.StatusOK, httpResp.StatusCode)

	body, err := io.ReadAll(httpResp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), ">Terminal</text>")
	require.Contains(t, string(body), ">Mar 2025</text>")
}
