package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/ganttline/internal/domain/activity"
	"github.com/rpggio/ganttline/internal/domain/chart"
	"github.com/rpggio/ganttline/internal/domain/project"
	"github.com/rpggio/ganttline/internal/exchange"
	"github.com/rpggio/ganttline/internal/transport"
)

// Handler implements every chart operation once; the SDK tools and the
// plain JSON-RPC transport both call into it.
type Handler struct {
	projects ProjectService
	charts   ChartService
	activity ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services) *Handler {
	return &Handler{
		projects: services.Projects,
		charts:   services.Charts,
		activity: services.Activity,
	}
}

// Handle dispatches a JSON-RPC method (a tool name) to the matching operation.
func (h *Handler) Handle(ctx context.Context, tenantID, sessionID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_project":
		return dispatch(ctx, tenantID, sessionID, params, h.CreateProject)
	case "update_project":
		return dispatch(ctx, tenantID, sessionID, params, h.UpdateProject)
	case "delete_project":
		return dispatch(ctx, tenantID, sessionID, params, h.DeleteProject)
	case "get_project":
		return dispatch(ctx, tenantID, sessionID, params, h.GetProject)
	case "list_projects":
		return dispatch(ctx, tenantID, sessionID, params, h.ListProjects)
	case "move_project":
		return dispatch(ctx, tenantID, sessionID, params, h.MoveProject)
	case "get_settings":
		return dispatch(ctx, tenantID, sessionID, params, h.GetSettings)
	case "update_settings":
		return dispatch(ctx, tenantID, sessionID, params, h.UpdateSettings)
	case "get_timeline":
		return dispatch(ctx, tenantID, sessionID, params, h.GetTimeline)
	case "export_chart":
		return dispatch(ctx, tenantID, sessionID, params, h.ExportChart)
	case "import_chart":
		return dispatch(ctx, tenantID, sessionID, params, h.ImportChart)
	case "render_chart":
		return dispatch(ctx, tenantID, sessionID, params, h.RenderChart)
	case "get_recent_activity":
		return dispatch(ctx, tenantID, sessionID, params, h.GetRecentActivity)
	default:
		return nil, fmt.Errorf("%w: %s", transport.ErrUnknownMethod, method)
	}
}

type operation[In, Out any] func(ctx context.Context, tenantID, sessionID string, in In) (Out, error)

func dispatch[In, Out any](ctx context.Context, tenantID, sessionID string, params json.RawMessage, op operation[In, Out]) (any, error) {
	var in In
	if err := decodeParams(params, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", transport.ErrInvalidParams, err)
	}
	out, err := op(ctx, tenantID, sessionID, in)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(bytes.TrimSpace(params)) == 0 || bytes.Equal(bytes.TrimSpace(params), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(params))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func (h *Handler) CreateProject(ctx context.Context, tenantID, sessionID string, in CreateProjectParams) (ProjectResponse, error) {
	start, err := parseDay("start_date", in.StartDate)
	if err != nil {
		return ProjectResponse{}, err
	}
	end, err := parseDay("end_date", in.EndDate)
	if err != nil {
		return ProjectResponse{}, err
	}
	proj, err := h.projects.Create(ctx, tenantID, project.CreateRequest{
		SessionID: sessionID,
		ID:        in.ID,
		Name:      in.Name,
		Tag:       in.Tag,
		StartDate: start,
		EndDate:   end,
		Color:     in.Color,
	})
	if err != nil {
		return ProjectResponse{}, err
	}
	return projectResponse(*proj), nil
}

func (h *Handler) UpdateProject(ctx context.Context, tenantID, sessionID string, in UpdateProjectParams) (ProjectResponse, error) {
	req := project.UpdateRequest{
		SessionID: sessionID,
		ID:        in.ID,
		Name:      in.Name,
		Tag:       in.Tag,
		Color:     in.Color,
	}
	if in.StartDate != nil {
		start, err := parseDay("start_date", *in.StartDate)
		if err != nil {
			return ProjectResponse{}, err
		}
		req.StartDate = &start
	}
	if in.EndDate != nil {
		end, err := parseDay("end_date", *in.EndDate)
		if err != nil {
			return ProjectResponse{}, err
		}
		req.EndDate = &end
	}
	proj, err := h.projects.Update(ctx, tenantID, req)
	if err != nil {
		return ProjectResponse{}, err
	}
	return projectResponse(*proj), nil
}

func (h *Handler) DeleteProject(ctx context.Context, tenantID, sessionID string, in ProjectIDParams) (DeleteProjectResponse, error) {
	if err := h.projects.Delete(ctx, tenantID, sessionID, in.ID); err != nil {
		return DeleteProjectResponse{}, err
	}
	return DeleteProjectResponse{ID: in.ID, Deleted: true}, nil
}

func (h *Handler) GetProject(ctx context.Context, tenantID, _ string, in ProjectIDParams) (ProjectResponse, error) {
	proj, err := h.projects.Get(ctx, tenantID, in.ID)
	if err != nil {
		return ProjectResponse{}, err
	}
	return projectResponse(*proj), nil
}

func (h *Handler) ListProjects(ctx context.Context, tenantID, _ string, _ ListProjectsParams) (ListProjectsResponse, error) {
	projects, err := h.projects.List(ctx, tenantID)
	if err != nil {
		return ListProjectsResponse{}, err
	}
	return ListProjectsResponse{Projects: projectResponses(projects)}, nil
}

func (h *Handler) MoveProject(ctx context.Context, tenantID, sessionID string, in MoveProjectParams) (ListProjectsResponse, error) {
	projects, err := h.projects.Move(ctx, tenantID, sessionID, in.From, in.To)
	if err != nil {
		return ListProjectsResponse{}, err
	}
	return ListProjectsResponse{Projects: projectResponses(projects)}, nil
}

func (h *Handler) GetSettings(ctx context.Context, tenantID, _ string, _ GetSettingsParams) (SettingsResponse, error) {
	c, err := h.charts.Get(ctx, tenantID)
	if err != nil {
		return SettingsResponse{}, err
	}
	return settingsResponse(c.Revision, c.Settings), nil
}

func (h *Handler) UpdateSettings(ctx context.Context, tenantID, sessionID string, in UpdateSettingsParams) (SettingsResponse, error) {
	c, err := h.charts.UpdateSettings(ctx, tenantID, chart.SettingsUpdate{
		SessionID:          sessionID,
		Granularity:        in.Granularity,
		ColumnWidth:        in.ColumnWidth,
		ProjectColumnWidth: in.ProjectColumnWidth,
		WeekStart:          in.WeekStart,
	})
	if err != nil {
		return SettingsResponse{}, err
	}
	return settingsResponse(c.Revision, c.Settings), nil
}

func (h *Handler) GetTimeline(ctx context.Context, tenantID, _ string, in GetTimelineParams) (TimelineResponse, error) {
	view, err := h.charts.Timeline(ctx, tenantID, chart.TimelineRequest{
		Granularity: in.Granularity,
		ColumnWidth: in.ColumnWidth,
	})
	if err != nil {
		return TimelineResponse{}, err
	}
	return timelineResponse(view), nil
}

func (h *Handler) ExportChart(ctx context.Context, tenantID, _ string, _ ExportChartParams) (ExportChartResponse, error) {
	doc, err := h.charts.Export(ctx, tenantID)
	if err != nil {
		return ExportChartResponse{}, err
	}
	return ExportChartResponse{
		Projects:   doc.Projects,
		Settings:   doc.Settings,
		ExportedAt: doc.ExportedAt.Format(time.RFC3339),
	}, nil
}

func (h *Handler) ImportChart(ctx context.Context, tenantID, sessionID string, in ImportChartParams) (ImportChartResponse, error) {
	doc := &exchange.Document{Projects: in.Projects, Settings: in.Settings}
	if err := doc.Normalize(); err != nil {
		return ImportChartResponse{}, err
	}
	result, err := h.charts.Import(ctx, tenantID, sessionID, doc)
	if err != nil {
		return ImportChartResponse{}, err
	}
	return ImportChartResponse{
		Revision: result.Revision,
		Settings: settingsResponse(result.Revision, result.Settings),
		Projects: projectResponses(result.Projects),
	}, nil
}

func (h *Handler) RenderChart(ctx context.Context, tenantID, _ string, in RenderChartParams) (RenderChartResponse, error) {
	var buf bytes.Buffer
	err := h.charts.RenderSVG(ctx, tenantID, chart.TimelineRequest{
		Granularity: in.Granularity,
		ColumnWidth: in.ColumnWidth,
	}, &buf)
	if err != nil {
		return RenderChartResponse{}, err
	}
	return RenderChartResponse{SVG: buf.String()}, nil
}

func (h *Handler) GetRecentActivity(ctx context.Context, tenantID, _ string, in GetRecentActivityParams) (GetRecentActivityResponse, error) {
	opts := activity.ListActivityOptions{
		SinceRevision: in.SinceRevision,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if in.ProjectID != "" {
		opts.ProjectID = &in.ProjectID
	}
	if in.SessionID != "" {
		opts.SessionID = &in.SessionID
	}
	if in.Type != "" {
		typ := activity.ActivityType(in.Type)
		opts.ActivityType = &typ
	}
	entries, err := h.activity.GetRecentActivity(ctx, tenantID, opts)
	if err != nil {
		return GetRecentActivityResponse{}, err
	}
	resp := GetRecentActivityResponse{Activity: make([]ActivityEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Activity = append(resp.Activity, activityResponse(entry))
	}
	return resp, nil
}

func parseDay(field, value string) (time.Time, error) {
	d, err := exchange.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", project.ErrInvalidInput, field, err)
	}
	return d, nil
}
