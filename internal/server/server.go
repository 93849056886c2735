// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arturogj92/codeagentswarm-tasks/internal/config"
	"github.com/arturogj92/codeagentswarm-tasks/internal/notify"
	"github.com/arturogj92/codeagentswarm-tasks/internal/prompts"
	"github.com/arturogj92/codeagentswarm-tasks/internal/resources"
	"github.com/arturogj92/codeagentswarm-tasks/internal/store"
	"github.com/arturogj92/codeagentswarm-tasks/internal/suggest"
	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	"github.com/arturogj92/codeagentswarm-tasks/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

type toolHandler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// tool is the common shape of every tool in the catalog.
type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function stops the heartbeat and closes the
// database connection; it must be called on shutdown (typically via
// defer) and is always non-nil.
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	db, err := store.New(cfg.DBPath())
	if err != nil {
		return nil, noop, fmt.Errorf("opening task store: %w", err)
	}

	sink := notify.New(cfg.NotificationsPath())

	svc := task.NewService(db, sink, task.WithDwell(cfg.Dwell()))

	engine := suggest.NewEngine(db, suggest.WithWindow(cfg.SuggestionWindow()))

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"codeagentswarm-tasks",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---
	//
	// Every handler is wrapped to count requests for the heartbeat.

	var requests atomic.Int64
	counted := func(h toolHandler) toolHandler {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			requests.Add(1)
			return h(ctx, req)
		}
	}

	catalog := []tool{
		tools.NewCreateTaskTool(svc),
		tools.NewGetTaskTool(svc),
		tools.NewListTasksTool(svc),
		tools.NewUpdateTaskTool(svc),
		tools.NewUpdatePlanTool(svc),
		tools.NewUpdateImplementationTool(svc),
		tools.NewUpdateTerminalTool(svc),
		tools.NewStartTaskTool(svc),
		tools.NewSubmitForTestingTool(svc),
		tools.NewCompleteTaskTool(svc),
		tools.NewDeleteTaskTool(svc),
		tools.NewReorderTasksTool(svc),
		tools.NewLinkTaskTool(svc),
		tools.NewUnlinkTaskTool(svc),
		tools.NewHierarchyTool(svc),
		tools.NewSuggestParentsTool(engine, cfg.SuggestionLimit),
		tools.NewCreateProjectTool(svc),
		tools.NewListProjectsTool(svc),
		tools.NewDeleteProjectTool(svc),
	}
	for _, t := range catalog {
		s.AddTool(t.Definition(), server.ToolHandlerFunc(counted(t.Handle)))
	}

	// --- Register prompts ---

	boardPrompt := prompts.NewBoardPrompt()
	s.AddPrompt(boardPrompt.Definition(), boardPrompt.Handle)

	briefingPrompt := prompts.NewBriefingPrompt()
	s.AddPrompt(briefingPrompt.Definition(), briefingPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(svc)
	s.AddResource(resourceHandler.BoardResource(), resourceHandler.HandleBoard)
	s.AddResource(resourceHandler.ProjectsResource(), resourceHandler.HandleProjects)

	// --- Heartbeat ---
	//
	// Periodic liveness line on stderr. stdout is reserved for the MCP
	// stdio transport.

	stop := make(chan struct{})
	go heartbeat(stop, cfg.Heartbeat(), &requests)

	// Every exit path (signal, stdin EOF, serve error) funnels through
	// this cleanup; sync.Once keeps the paths from racing each other.
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			close(stop)
			if err := db.Close(); err != nil {
				log.Printf("WARNING: task store close: %v", err)
			}
		})
	}
	return s, cleanup, nil
}

// noop is the default cleanup when initialization fails early.
func noop() {}

func heartbeat(stop <-chan struct{}, interval time.Duration, requests *atomic.Int64) {
	if interval <= 0 {
		return
	}
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			log.Printf("heartbeat: uptime=%s requests=%d",
				time.Since(start).Round(time.Second), requests.Load())
		}
	}
}

// serverInstructions returns the system instructions that tell the AI
// how to use the task board effectively.
func serverInstructions() string {
	return `You have access to a task board shared with the user's desktop kanban app.

## Core workflow

Every piece of work you do should be tracked as a task:

1. Before creating a task, call suggest_parent_tasks with the planned
   title and description. If a good match comes back, create the task
   with that parent_task_id so related work stays grouped.
2. Create the task with create_task. The project is detected from the
   working directory when you do not pass one.
3. Write a plan with update_task_plan, then call start_task.
4. When the work is done, save what you changed with
   update_task_implementation, then call submit_for_testing.
5. Verify the work actually behaves as intended. Only then call
   complete_task. Completion is rejected until implementation notes
   exist and the task has spent the minimum time in testing.

## Statuses

pending -> in_progress -> in_testing -> completed. Transitions are
one-way and enforced; use start_task, submit_for_testing, and
complete_task rather than editing status directly.

## Hierarchy

Tasks can nest. Use link_task_to_parent / unlink_task_from_parent to
restructure, and get_task_hierarchy to read a task with its subtask
tree. Links that would create a cycle are rejected.

## Projects

Projects are lightweight grouping tags with a board color. They are
created automatically on first reference; create_project only matters
when you want to pick the color yourself.`
}
