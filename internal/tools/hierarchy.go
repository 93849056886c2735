package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// LinkTaskTool handles link_task_to_parent: making an existing task a
// subtask of another. Links that would close a cycle are rejected.
type LinkTaskTool struct {
	svc *task.Service
}

// NewLinkTaskTool creates a LinkTaskTool.
func NewLinkTaskTool(svc *task.Service) *LinkTaskTool {
	return &LinkTaskTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *LinkTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("link_task_to_parent",
		mcp.WithDescription(
			"Make a task a subtask of another task. Fails if the link would "+
				"create a circular dependency.",
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task to link"),
		),
		mcp.WithNumber("parent_task_id",
			mcp.Required(),
			mcp.Description("New parent task"),
		),
	)
}

// Handle processes the link_task_to_parent tool call.
func (t *LinkTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}
	parentID := intArg(req, "parent_task_id", 0)
	if parentID <= 0 {
		return mcp.NewToolResultError("'parent_task_id' is required and must be a positive integer"), nil
	}

	linked, err := t.svc.LinkToParent(id, parentID)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Task #%d is now a subtask of #%d.", linked.ID, parentID,
	)), nil
}

// UnlinkTaskTool handles unlink_task_from_parent.
type UnlinkTaskTool struct {
	svc *task.Service
}

// NewUnlinkTaskTool creates an UnlinkTaskTool.
func NewUnlinkTaskTool(svc *task.Service) *UnlinkTaskTool {
	return &UnlinkTaskTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *UnlinkTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("unlink_task_from_parent",
		mcp.WithDescription("Detach a subtask from its parent, making it a root task."),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
	)
}

// Handle processes the unlink_task_from_parent tool call.
func (t *UnlinkTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}
	if _, err := t.svc.UnlinkFromParent(id); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task #%d is now a root task.", id)), nil
}

// HierarchyTool handles get_task_hierarchy: a task with its subtasks
// nested recursively.
type HierarchyTool struct {
	svc *task.Service
}

// NewHierarchyTool creates a HierarchyTool.
func NewHierarchyTool(svc *task.Service) *HierarchyTool {
	return &HierarchyTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *HierarchyTool) Definition() mcp.Tool {
	return mcp.NewTool("get_task_hierarchy",
		mcp.WithDescription("Read a task together with its full subtask tree."),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Root task id"),
		),
	)
}

// Handle processes the get_task_hierarchy tool call.
func (t *HierarchyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}

	root, err := t.svc.Hierarchy(id)
	if err != nil {
		return errResult(err), nil
	}

	var b strings.Builder
	renderNode(&b, root, 0)
	return mcp.NewToolResultText(b.String()), nil
}

func renderNode(b *strings.Builder, n task.Node, depth int) {
	fmt.Fprintf(b, "%s%s\n", strings.Repeat("  ", depth), renderTaskLine(n.Task))
	for _, sub := range n.Subtasks {
		renderNode(b, sub, depth+1)
	}
}
