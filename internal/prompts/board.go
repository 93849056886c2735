// Package prompts implements MCP prompt handlers for the task board.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// BoardPrompt handles the task-board MCP prompt.
// It instructs the AI to read and present the current board state.
type BoardPrompt struct{}

// NewBoardPrompt creates a BoardPrompt.
func NewBoardPrompt() *BoardPrompt {
	return &BoardPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *BoardPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("task-board",
		mcp.WithPromptDescription(
			"Show the current task board. Lists every task by status "+
				"column and tells you what is actionable right now.",
		),
	)
}

// Handle processes the task-board prompt request.
func (p *BoardPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Task Board Overview",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `list_tasks` to read my task board.\n\n" +
						"Then:\n" +
						"1. Show the tasks grouped by status column (pending, in progress, in testing, completed)\n" +
						"2. Flag any task stuck in testing that still needs implementation notes\n" +
						"3. Tell me which pending task you would start next and why",
				),
			},
		},
	}, nil
}
