package tools

import (
	"context"
	"fmt"

	"github.com/arturogj92/codeagentswarm-tasks/internal/suggest"
	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// StartTaskTool handles start_task: pending → in_progress, plus a
// best-effort terminal tab label hint for the desktop UI.
type StartTaskTool struct {
	svc *task.Service
}

// NewStartTaskTool creates a StartTaskTool.
func NewStartTaskTool(svc *task.Service) *StartTaskTool {
	return &StartTaskTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *StartTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("start_task",
		mcp.WithDescription(
			"Start working on a pending task, moving it to 'in_progress'. "+
				"Also labels the owning terminal tab after the task.",
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
	)
}

// Handle processes the start_task tool call.
func (t *StartTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}

	started, err := t.svc.Start(id)
	if err != nil {
		return errResult(err), nil
	}

	// UI hint only; task start never fails on it.
	if started.TerminalID != nil {
		t.svc.AnnounceTerminal(*started.TerminalID, suggest.ShortLabel(started.Title))
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Task #%d is now in progress: %s", started.ID, started.Title,
	)), nil
}

// SubmitForTestingTool handles submit_for_testing: in_progress →
// in_testing. Submitting an already-testing task is a no-op.
type SubmitForTestingTool struct {
	svc *task.Service
}

// NewSubmitForTestingTool creates a SubmitForTestingTool.
func NewSubmitForTestingTool(svc *task.Service) *SubmitForTestingTool {
	return &SubmitForTestingTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *SubmitForTestingTool) Definition() mcp.Tool {
	return mcp.NewTool("submit_for_testing",
		mcp.WithDescription(
			"Move an in-progress task into the testing quarantine. The task "+
				"must sit in testing for a minimum time before it can be completed.",
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
	)
}

// Handle processes the submit_for_testing tool call.
func (t *SubmitForTestingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}

	submitted, err := t.svc.SubmitForTesting(id)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Task #%d is now in testing: %s\n\nVerify the work, save the implementation "+
			"notes with update_task_implementation, then call complete_task.",
		submitted.ID, submitted.Title,
	)), nil
}

// CompleteTaskTool handles complete_task, the two-phase completion
// protocol: the first call on an in-progress task moves it to testing;
// the second call, after the dwell time and with implementation notes
// saved, completes it.
type CompleteTaskTool struct {
	svc *task.Service
}

// NewCompleteTaskTool creates a CompleteTaskTool.
func NewCompleteTaskTool(svc *task.Service) *CompleteTaskTool {
	return &CompleteTaskTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *CompleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_task",
		mcp.WithDescription(
			"Complete a task. On an in-progress task this moves it to testing "+
				"first; on a testing task it finishes it, provided implementation "+
				"notes exist and the minimum testing time has elapsed.",
		),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
	)
}

// Handle processes the complete_task tool call.
func (t *CompleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := taskIDArg(req)
	if bad != nil {
		return bad, nil
	}

	done, err := t.svc.Complete(id)
	if err != nil {
		return errResult(err), nil
	}

	if done.Status == task.StatusInTesting {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Task #%d moved to testing: %s\n\nVerify the work, save implementation "+
				"notes, and call complete_task again to finish.",
			done.ID, done.Title,
		)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Task #%d completed: %s", done.ID, done.Title,
	)), nil
}
