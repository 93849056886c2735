package tools

import (
	"context"
	"fmt"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// DeleteTaskTool handles the delete_task MCP tool. Subtasks of the
// deleted task are reparented to its own parent: never orphaned,
// never silently cascaded.
type DeleteTaskTool struct {
	svc *task.Service
}

// NewDeleteTaskTool creates a DeleteTaskTool.
func NewDeleteTaskTool(svc *task.Service) *DeleteTaskTool {
	return &DeleteTaskTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription(
			"Delete a task. Its subtasks are kept and reattached to the "+
				"deleted task's parent.",
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
	)
}

// Handle processes the delete_task tool call.
func (t *DeleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}
	if err := t.svc.Delete(id); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted task #%d.", id)), nil
}
