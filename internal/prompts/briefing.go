package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// BriefingPrompt handles the task-briefing MCP prompt.
// It guides the AI through picking up a specific task end to end.
type BriefingPrompt struct{}

// NewBriefingPrompt creates a BriefingPrompt.
func NewBriefingPrompt() *BriefingPrompt {
	return &BriefingPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *BriefingPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("task-briefing",
		mcp.WithPromptDescription(
			"Brief yourself on a task and work it through the full "+
				"lifecycle: plan, start, implement, test, complete.",
		),
		mcp.WithArgument("task_id",
			mcp.ArgumentDescription("Id of the task to work on"),
		),
	)
}

// Handle processes the task-briefing prompt request.
func (p *BriefingPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	taskID := ""
	if args := req.Params.Arguments; args != nil {
		if id, ok := args["task_id"]; ok && id != "" {
			taskID = id
		}
	}
	if taskID == "" {
		return &mcp.GetPromptResult{
			Description: "Task Briefing",
			Messages: []mcp.PromptMessage{
				{
					Role: mcp.RoleUser,
					Content: mcp.NewTextContent(
						"Please run `list_tasks` with status='pending', show me the " +
							"candidates, and ask me which task to work on.",
					),
				},
			},
		}, nil
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Briefing for task #%s", taskID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to work on task #%s.\n\n"+
						"Please:\n"+
						"1. Run `get_task` with task_id=%s and `get_task_hierarchy` to understand it in context\n"+
						"2. Write a short plan and save it with `update_task_plan`\n"+
						"3. Run `start_task` and do the work\n"+
						"4. When done, save what you changed with `update_task_implementation`\n"+
						"5. Run `submit_for_testing`, verify the work, then `complete_task`",
					taskID, taskID,
				)),
			},
		},
	}, nil
}
