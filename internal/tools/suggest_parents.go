package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/arturogj92/codeagentswarm-tasks/internal/suggest"
	"github.com/mark3labs/mcp-go/mcp"
)

// SuggestParentsTool handles suggest_parent_tasks: heuristic ranking of
// likely parent tasks for work about to be created.
type SuggestParentsTool struct {
	engine *suggest.Engine
	limit  int
}

// NewSuggestParentsTool creates a SuggestParentsTool. defaultLimit caps
// results when the caller does not pass a limit.
func NewSuggestParentsTool(engine *suggest.Engine, defaultLimit int) *SuggestParentsTool {
	if defaultLimit <= 0 {
		defaultLimit = suggest.DefaultLimit
	}
	return &SuggestParentsTool{engine: engine, limit: defaultLimit}
}

// Definition returns the MCP tool definition for registration.
func (t *SuggestParentsTool) Definition() mcp.Tool {
	return mcp.NewTool("suggest_parent_tasks",
		mcp.WithDescription(
			"Suggest existing tasks that are likely parents for a new task, "+
				"based on keyword similarity against recently updated tasks. "+
				"Call this before create_task to decide whether the new work "+
				"is a subtask.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the task about to be created"),
		),
		mcp.WithString("description",
			mcp.Description("Description of the task about to be created"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max suggestions (default 5)"),
		),
	)
}

// Handle processes the suggest_parent_tasks tool call.
func (t *SuggestParentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	description := req.GetString("description", "")
	limit := int(intArg(req, "limit", int64(t.limit)))

	candidates, err := t.engine.SuggestParents(title, description, limit)
	if err != nil {
		return errResult(err), nil
	}
	if len(candidates) == 0 {
		return mcp.NewToolResultText("No likely parent tasks found. Create it as a root task."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d likely parent task(s):\n\n", len(candidates))
	for i, c := range candidates {
		fmt.Fprintf(&b, "[%d] #%d %s (score %.2f)\n    %s\n\n",
			i+1, c.Task.ID, c.Task.Title, c.Score, c.Reason)
	}
	return mcp.NewToolResultText(b.String()), nil
}
