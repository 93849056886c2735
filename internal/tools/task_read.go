package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetTaskTool handles the get_task MCP tool.
type GetTaskTool struct {
	svc *task.Service
}

// NewGetTaskTool creates a GetTaskTool.
func NewGetTaskTool(svc *task.Service) *GetTaskTool {
	return &GetTaskTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *GetTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("get_task",
		mcp.WithDescription("Read a single task with all of its fields."),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
	)
}

// Handle processes the get_task tool call.
func (t *GetTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}
	got, err := t.svc.Get(id)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(renderTask(got)), nil
}

// ListTasksTool handles the list_tasks MCP tool.
type ListTasksTool struct {
	svc *task.Service
}

// NewListTasksTool creates a ListTasksTool.
func NewListTasksTool(svc *task.Service) *ListTasksTool {
	return &ListTasksTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription(
			"List tasks on the board, optionally filtered by status and/or project. "+
				"Ordered by board position.",
		),
		mcp.WithString("status",
			mcp.Description("Filter by status"),
			mcp.Enum("pending", "in_progress", "in_testing", "completed"),
		),
		mcp.WithString("project",
			mcp.Description("Filter by project name"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: no limit)"),
		),
	)
}

// Handle processes the list_tasks tool call.
func (t *ListTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := task.Filter{
		Status:  task.Status(req.GetString("status", "")),
		Project: req.GetString("project", ""),
		Limit:   int(intArg(req, "limit", 0)),
	}
	if f.Status != "" && !f.Status.IsValid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", f.Status)), nil
	}

	tasks, err := t.svc.List(f)
	if err != nil {
		return errResult(err), nil
	}
	if len(tasks) == 0 {
		return mcp.NewToolResultText("No tasks found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d task(s):\n\n", len(tasks))
	for _, tk := range tasks {
		fmt.Fprintf(&b, "%s\n", renderTaskLine(tk))
	}
	return mcp.NewToolResultText(b.String()), nil
}
