// Package tools implements the MCP tool catalog over the task domain.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the schema, and a Handle() that validates
// parameters at the boundary, calls the domain, and renders the result.
// The catalog is assembled once at startup (internal/server) and never
// mutated afterwards.
//
// Domain errors are converted to tool error results here; they never
// propagate as transport failures.
package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/arturogj92/codeagentswarm-tasks/internal/config"
	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are
// float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int64) int64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int64(v)
}

// taskIDArg extracts the required task_id parameter. The second return
// is a ready-made error result when the parameter is missing.
func taskIDArg(req mcp.CallToolRequest) (int64, *mcp.CallToolResult) {
	id := intArg(req, "task_id", 0)
	if id <= 0 {
		return 0, mcp.NewToolResultError("'task_id' is required and must be a positive integer")
	}
	return id, nil
}

// errResult converts a domain error into a tool error result. All
// domain failures surface as structured errors with a human-readable
// message; there is no silent failure path.
func errResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

// detectWorkingProject resolves the project for a tool call that did
// not name one: the CLAUDE.md marker of the current working directory,
// falling back to the directory's base name.
func detectWorkingProject() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return config.DetectProject(dir)
}

// renderTask renders a single task as markdown for the calling agent.
func renderTask(t task.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Task #%d: %s\n\n", t.ID, t.Title)
	fmt.Fprintf(&b, "**Status:** %s\n", t.Status.Display())
	if t.Project != "" {
		fmt.Fprintf(&b, "**Project:** %s\n", t.Project)
	}
	if t.ParentTaskID != nil {
		fmt.Fprintf(&b, "**Parent task:** #%d\n", *t.ParentTaskID)
	}
	if t.TerminalID != nil {
		fmt.Fprintf(&b, "**Terminal:** %d\n", *t.TerminalID)
	}
	if t.Description != "" {
		fmt.Fprintf(&b, "\n## Description\n\n%s\n", t.Description)
	}
	if t.Plan != "" {
		fmt.Fprintf(&b, "\n## Plan\n\n%s\n", t.Plan)
	}
	if t.Implementation != "" {
		fmt.Fprintf(&b, "\n## Implementation\n\n%s\n", t.Implementation)
	}
	return b.String()
}

// renderTaskLine renders a task as a one-line board entry.
func renderTaskLine(t task.Task) string {
	line := fmt.Sprintf("#%d [%s] %s", t.ID, t.Status, t.Title)
	if t.Project != "" {
		line += fmt.Sprintf(" (project: %s)", t.Project)
	}
	if t.ParentTaskID != nil {
		line += fmt.Sprintf(" (subtask of #%d)", *t.ParentTaskID)
	}
	return line
}
