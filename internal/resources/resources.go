// Package resources implements MCP resource handlers for the task board.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (tasks://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler manages task board resource endpoints.
type Handler struct {
	svc *task.Service
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(svc *task.Service) *Handler {
	return &Handler{svc: svc}
}

// BoardResource returns the MCP resource definition for the kanban board.
func (h *Handler) BoardResource() mcp.Resource {
	return mcp.NewResource(
		"tasks://board",
		"Task Board",
		mcp.WithResourceDescription("The current kanban board: all tasks grouped by status column"),
		mcp.WithMIMEType("application/json"),
	)
}

// board is the wire shape of the tasks://board resource.
type board struct {
	Pending    []task.Task `json:"pending"`
	InProgress []task.Task `json:"in_progress"`
	InTesting  []task.Task `json:"in_testing"`
	Completed  []task.Task `json:"completed"`
}

// HandleBoard returns the board snapshot as JSON.
func (h *Handler) HandleBoard(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tasks, err := h.svc.List(task.Filter{})
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	b := board{
		Pending:    []task.Task{},
		InProgress: []task.Task{},
		InTesting:  []task.Task{},
		Completed:  []task.Task{},
	}
	for _, t := range tasks {
		switch t.Status {
		case task.StatusPending:
			b.Pending = append(b.Pending, t)
		case task.StatusInProgress:
			b.InProgress = append(b.InProgress, t)
		case task.StatusInTesting:
			b.InTesting = append(b.InTesting, t)
		case task.StatusCompleted:
			b.Completed = append(b.Completed, t)
		}
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling board: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// ProjectsResource returns the MCP resource definition for the project
// registry.
func (h *Handler) ProjectsResource() mcp.Resource {
	return mcp.NewResource(
		"tasks://projects",
		"Project Registry",
		mcp.WithResourceDescription("All registered projects with their board colors and paths"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleProjects returns the project registry as JSON.
func (h *Handler) HandleProjects(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	projects, err := h.svc.Projects()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling projects: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
