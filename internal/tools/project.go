package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateProjectTool handles create_project. Projects are lightweight
// grouping tags; creating one explicitly lets the caller pick the
// display name and color up front.
type CreateProjectTool struct {
	svc *task.Service
}

// NewCreateProjectTool creates a CreateProjectTool.
func NewCreateProjectTool(svc *task.Service) *CreateProjectTool {
	return &CreateProjectTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription(
			"Register a project for grouping tasks. Projects are also created "+
				"automatically the first time a task references them.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Project name (unique key)"),
		),
		mcp.WithString("color",
			mcp.Description("Hex color for the board, e.g. #007ACC. Auto-assigned when omitted."),
		),
	)
}

// Handle processes the create_project tool call.
func (t *CreateProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(req.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	color := req.GetString("color", "")

	p, err := t.svc.CreateProject(name, color)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Project %q registered with color %s.", p.Name, p.Color,
	)), nil
}

// ListProjectsTool handles list_projects.
type ListProjectsTool struct {
	svc *task.Service
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(svc *task.Service) *ListProjectsTool {
	return &ListProjectsTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("List all registered projects."),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := t.svc.Projects()
	if err != nil {
		return errResult(err), nil
	}
	if len(projects) == 0 {
		return mcp.NewToolResultText("No projects registered yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d project(s):\n\n", len(projects))
	for _, p := range projects {
		fmt.Fprintf(&b, "- %s (%s)", p.Name, p.Color)
		if p.Path != "" {
			fmt.Fprintf(&b, " at %s", p.Path)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// DeleteProjectTool handles delete_project. Tasks keep their project
// tag; only the registry entry goes away.
type DeleteProjectTool struct {
	svc *task.Service
}

// NewDeleteProjectTool creates a DeleteProjectTool.
func NewDeleteProjectTool(svc *task.Service) *DeleteProjectTool {
	return &DeleteProjectTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_project",
		mcp.WithDescription(
			"Remove a project from the registry. Tasks tagged with it are "+
				"left untouched.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Project name"),
		),
	)
}

// Handle processes the delete_project tool call.
func (t *DeleteProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(req.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	if err := t.svc.DeleteProject(name); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Project %q removed.", name)), nil
}
