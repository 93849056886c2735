package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// ReorderTasksTool handles update_task_order: rewriting board positions
// so that a task's position in the given list becomes its sort order.
type ReorderTasksTool struct {
	svc *task.Service
}

// NewReorderTasksTool creates a ReorderTasksTool.
func NewReorderTasksTool(svc *task.Service) *ReorderTasksTool {
	return &ReorderTasksTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *ReorderTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task_order",
		mcp.WithDescription(
			"Reorder tasks on the board. Pass the task ids in the desired "+
				"order; list position becomes the new sort order.",
		),
		mcp.WithString("task_ids",
			mcp.Required(),
			mcp.Description("Comma-separated task ids in the desired order, e.g. \"3,1,2\""),
		),
	)
}

// Handle processes the update_task_order tool call.
func (t *ReorderTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := strings.TrimSpace(req.GetString("task_ids", ""))
	if raw == "" {
		return mcp.NewToolResultError("'task_ids' is required"), nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return mcp.NewToolResultError(fmt.Sprintf("invalid task id %q in 'task_ids'", p)), nil
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return mcp.NewToolResultError("'task_ids' is required"), nil
	}

	if err := t.svc.Reorder(ids); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reordered %d task(s).", len(ids))), nil
}
