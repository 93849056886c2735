package tools

import (
	"context"
	"fmt"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateTaskTool handles the update_task MCP tool: partial edits of
// title, description, and project. Status is deliberately not editable
// here; it moves only through start_task / submit_for_testing /
// complete_task.
type UpdateTaskTool struct {
	svc *task.Service
}

// NewUpdateTaskTool creates an UpdateTaskTool.
func NewUpdateTaskTool(svc *task.Service) *UpdateTaskTool {
	return &UpdateTaskTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription(
			"Update a task's title, description, or project. Only the fields "+
				"you pass are changed.",
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
		mcp.WithString("title",
			mcp.Description("New title (non-empty)"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("project",
			mcp.Description("New project name. Created on first reference."),
		),
	)
}

// Handle processes the update_task tool call.
func (t *UpdateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}

	var f task.UpdateFields
	args := req.GetArguments()
	if v, ok := args["title"].(string); ok {
		f.Title = &v
	}
	if v, ok := args["description"].(string); ok {
		f.Description = &v
	}
	if v, ok := args["project"].(string); ok {
		f.Project = &v
	}

	updated, err := t.svc.Update(id, f)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated task #%d.\n\n%s", id, renderTaskLine(updated))), nil
}

// UpdatePlanTool handles update_task_plan: replacing the task's plan
// document.
type UpdatePlanTool struct {
	svc *task.Service
}

// NewUpdatePlanTool creates an UpdatePlanTool.
func NewUpdatePlanTool(svc *task.Service) *UpdatePlanTool {
	return &UpdatePlanTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdatePlanTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task_plan",
		mcp.WithDescription("Save or replace the plan for a task. Write the plan before starting work."),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
		mcp.WithString("plan",
			mcp.Required(),
			mcp.Description("The plan content (markdown)"),
		),
	)
}

// Handle processes the update_task_plan tool call.
func (t *UpdatePlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}
	plan := req.GetString("plan", "")
	if plan == "" {
		return mcp.NewToolResultError("'plan' is required"), nil
	}

	if _, err := t.svc.Update(id, task.UpdateFields{Plan: &plan}); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Plan saved for task #%d.", id)), nil
}

// UpdateImplementationTool handles update_task_implementation: the
// record of what was actually done. A non-empty implementation is a
// precondition for completing a task out of testing.
type UpdateImplementationTool struct {
	svc *task.Service
}

// NewUpdateImplementationTool creates an UpdateImplementationTool.
func NewUpdateImplementationTool(svc *task.Service) *UpdateImplementationTool {
	return &UpdateImplementationTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateImplementationTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task_implementation",
		mcp.WithDescription(
			"Save or replace the implementation notes for a task: what was changed, "+
				"where, and how. Required before a task can leave testing.",
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
		mcp.WithString("implementation",
			mcp.Required(),
			mcp.Description("The implementation summary (markdown)"),
		),
	)
}

// Handle processes the update_task_implementation tool call.
func (t *UpdateImplementationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}
	impl := req.GetString("implementation", "")
	if impl == "" {
		return mcp.NewToolResultError("'implementation' is required"), nil
	}

	if _, err := t.svc.Update(id, task.UpdateFields{Implementation: &impl}); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Implementation saved for task #%d.", id)), nil
}

// UpdateTerminalTool handles update_task_terminal: reassigning the
// terminal that owns a task.
type UpdateTerminalTool struct {
	svc *task.Service
}

// NewUpdateTerminalTool creates an UpdateTerminalTool.
func NewUpdateTerminalTool(svc *task.Service) *UpdateTerminalTool {
	return &UpdateTerminalTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateTerminalTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task_terminal",
		mcp.WithDescription("Assign the terminal that owns a task."),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
		mcp.WithNumber("terminal_id",
			mcp.Required(),
			mcp.Description("Owning terminal id"),
		),
	)
}

// Handle processes the update_task_terminal tool call.
func (t *UpdateTerminalTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}
	terminal := intArg(req, "terminal_id", 0)
	if terminal <= 0 {
		return mcp.NewToolResultError("'terminal_id' is required and must be a positive integer"), nil
	}

	if _, err := t.svc.Update(id, task.UpdateFields{TerminalID: &terminal}); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task #%d assigned to terminal %d.", id, terminal)), nil
}
