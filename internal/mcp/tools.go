package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolHandler adapts a Handler operation to the SDK, taking tenant and
// session from the middleware-populated context.
func toolHandler[In, Out any](op operation[In, Out]) sdkmcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		out, err := op(ctx, getTenantID(ctx), getSessionID(ctx), in)
		if err != nil {
			var zero Out
			return nil, zero, mapError(err)
		}
		return nil, out, nil
	}
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Add a project to the end of the chart. Dates are YYYY-MM-DD and the end date is inclusive.",
	}, toolHandler(h.CreateProject))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Change any of a project's name, tag, dates or colour. Omitted fields are left as they are.",
	}, toolHandler(h.UpdateProject))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Remove a project from the chart",
	}, toolHandler(h.DeleteProject))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project by id",
	}, toolHandler(h.GetProject))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the chart's projects in row order",
	}, toolHandler(h.ListProjects))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_project",
		Description: "Move the project at row 'from' to row 'to' and return the new order",
	}, toolHandler(h.MoveProject))

	// Settings and views
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_settings",
		Description: "Get the chart's granularity, column widths, week start and revision",
	}, toolHandler(h.GetSettings))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_settings",
		Description: "Change the chart's granularity, column widths or week start",
	}, toolHandler(h.UpdateSettings))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_timeline",
		Description: "Compute the time buckets and each project's bar position for the current chart",
	}, toolHandler(h.GetTimeline))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "render_chart",
		Description: "Render the current chart as an SVG document",
	}, toolHandler(h.RenderChart))

	// Exchange
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_chart",
		Description: "Export projects and settings as a portable JSON document",
	}, toolHandler(h.ExportChart))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_chart",
		Description: "Replace all projects with those in an exported document and apply its settings",
	}, toolHandler(h.ImportChart))

	// History
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent chart changes, newest first",
	}, toolHandler(h.GetRecentActivity))
}
