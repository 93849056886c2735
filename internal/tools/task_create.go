package tools

import (
	"context"
	"fmt"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateTaskTool handles the create_task MCP tool.
//
// When no project is given and the task is not a subtask, the project
// is auto-detected from the working directory (CLAUDE.md marker, then
// directory base name) and materialized if unseen. Subtasks without a
// project inherit the parent's.
type CreateTaskTool struct {
	svc    *task.Service
	detect func() string
}

// NewCreateTaskTool creates a CreateTaskTool.
func NewCreateTaskTool(svc *task.Service) *CreateTaskTool {
	return &CreateTaskTool{svc: svc, detect: detectWorkingProject}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("create_task",
		mcp.WithDescription(
			"Create a new task on the board. New tasks start in 'pending'. "+
				"If no project is given, it is detected from the working directory; "+
				"subtasks inherit the parent's project.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title (non-empty)"),
		),
		mcp.WithString("description",
			mcp.Description("What the task is about"),
		),
		mcp.WithString("project",
			mcp.Description("Project name. Created on first reference."),
		),
		mcp.WithNumber("parent_task_id",
			mcp.Description("Make this task a subtask of an existing task"),
		),
		mcp.WithNumber("terminal_id",
			mcp.Description("Terminal that owns this task"),
		),
	)
}

// Handle processes the create_task tool call.
func (t *CreateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := task.CreateParams{
		Title:       req.GetString("title", ""),
		Description: req.GetString("description", ""),
		Project:     req.GetString("project", ""),
	}
	if id := intArg(req, "parent_task_id", 0); id > 0 {
		p.ParentTaskID = &id
	}
	if id := intArg(req, "terminal_id", 0); id > 0 {
		p.TerminalID = &id
	}

	if p.Title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	if p.Project == "" && p.ParentTaskID == nil {
		p.Project = t.detect()
	}

	created, err := t.svc.Create(p)
	if err != nil {
		return errResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Created task #%d: %s\n\n%s", created.ID, created.Title, renderTaskLine(created),
	)), nil
}
