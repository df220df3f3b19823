// Package mcp exposes the lesson service to AI agents over the Model
// Context Protocol: listing lessons, reading tasks and grading attempts
// without the interactive terminal loop.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/sensei/pkg/ports"
)

// Server wraps a lesson service and exposes it as an MCP server.
type Server struct {
	svc       ports.LessonService
	mcpServer *server.MCPServer
}

// NewServer creates the MCP surface over a lesson service.
func NewServer(svc ports.LessonService, version string) *Server {
	s := &Server{
		svc:       svc,
		mcpServer: server.NewMCPServer("sensei-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_lessons",
		mcp.WithDescription("List the lessons currently unlocked, optionally filtered by entry modality."),
		mcp.WithString("modality", mcp.Description("Filter by entry task modality (text, console, choice, external-event)")),
	), s.handleListLessons)

	s.mcpServer.AddTool(mcp.NewTool("get_task",
		mcp.WithDescription("Fetch a task's instructional text and input descriptor."),
		mcp.WithString("lesson", mcp.Required(), mcp.Description("Lesson name")),
		mcp.WithString("task", mcp.Required(), mcp.Description("Task id")),
	), s.handleGetTask)

	s.mcpServer.AddTool(mcp.NewTool("attempt_task",
		mcp.WithDescription("Submit input for grading and receive the result key plus response payloads."),
		mcp.WithString("lesson", mcp.Required(), mcp.Description("Lesson name")),
		mcp.WithString("task", mcp.Required(), mcp.Description("Task id")),
		mcp.WithString("input", mcp.Required(), mcp.Description("The submission to grade")),
		mcp.WithString("session", mcp.Description("Grading session handle, for lessons that require one")),
	), s.handleAttempt)
}

func (s *Server) handleListLessons(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modality := request.GetString("modality", "")
	lessons, err := s.svc.UnlockedLessons(ctx, modality)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list lessons failed: %v", err)), nil
	}
	payload, _ := json.Marshal(lessons)
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleGetTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lessonID, err := request.RequireString("lesson")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	taskID, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, raw, err := s.svc.GetTaskDescription(ctx, lessonID, taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get task failed: %v", err)), nil
	}
	payload, _ := json.Marshal(map[string]any{
		"text":  text,
		"input": json.RawMessage(raw),
	})
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleAttempt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lessonID, err := request.RequireString("lesson")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	taskID, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	input, err := request.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session := ports.Session(request.GetString("session", ""))

	result, responses, err := s.svc.AttemptLesson(ctx, session, lessonID, taskID, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("attempt failed: %v", err)), nil
	}
	payload, _ := json.Marshal(map[string]any{
		"result":    result,
		"responses": responses,
	})
	return mcp.NewToolResultText(string(payload)), nil
}
