// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package scribe_mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	internal_type "github.com/rapidaai/scribe/api/scribe-api/internal/type"
	"github.com/rapidaai/scribe/pkg/commons"
)

type sessionController interface {
	StartAsync(ctx context.Context, params internal_type.SessionParameters) (string, error)
	Stop()
	Wait(ctx context.Context) error
	Status() internal_type.SessionStatus
}

type scribeTools struct {
	logger     commons.Logger
	controller sessionController
}

// NewServer exposes session control as MCP tools.
func NewServer(name, version string, logger commons.Logger, controller sessionController) *server.MCPServer {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(false), server.WithRecovery())
	t := &scribeTools{logger: logger, controller: controller}

	s.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start recording. Audio is cut into fixed segments, each transcribed in the background, and a running summary is kept."),
		mcp.WithString("input_language", mcp.Description("Spoken language, e.g. ja or en-US")),
		mcp.WithString("output_language", mcp.Description("Language of transcripts and summary")),
		mcp.WithNumber("total_duration_seconds", mcp.Description("Hard limit for the session (default 900)")),
		mcp.WithNumber("segment_duration_seconds", mcp.Description("Length of one segment, must divide the total (default 30)")),
	), t.startSession)

	s.AddTool(mcp.NewTool("stop_session",
		mcp.WithDescription("Stop recording. Queued segments are still transcribed."),
		mcp.WithBoolean("wait", mcp.Description("Wait until queued segments are done before returning")),
	), t.stopSession)

	s.AddTool(mcp.NewTool("session_status",
		mcp.WithDescription("Current state, transcripts and the latest summary."),
	), t.sessionStatus)
	return s
}

func (t *scribeTools) startSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := internal_type.SessionParameters{
		InputLanguage:          request.GetString("input_language", ""),
		OutputLanguage:         request.GetString("output_language", ""),
		TotalDurationSeconds:   request.GetInt("total_duration_seconds", 0),
		SegmentDurationSeconds: request.GetInt("segment_duration_seconds", 0),
	}
	id, err := t.controller.StartAsync(ctx, params)
	if err != nil {
		t.logger.Warnf("mcp: start_session rejected: %v", err)
		return mcp.NewToolResultError(describe(err)), nil
	}
	return jsonResult(map[string]interface{}{"sessionId": id, "status": t.controller.Status()})
}

func (t *scribeTools) stopSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.controller.Stop()
	if request.GetBool("wait", false) {
		if err := t.controller.Wait(ctx); err != nil {
			return mcp.NewToolResultError("stopped, still waiting for queued segments: " + err.Error()), nil
		}
	}
	return jsonResult(t.controller.Status())
}

func (t *scribeTools) sessionStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.controller.Status())
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

func describe(err error) string {
	switch {
	case errors.Is(err, internal_type.ErrAlreadyActive):
		return "a session is already running, stop it first"
	case errors.Is(err, internal_type.ErrDeviceUnavailable):
		return "no audio source is connected: " + err.Error()
	case errors.Is(err, internal_type.ErrModelUnavailable):
		return "speech or summary model is not available: " + err.Error()
	default:
		return err.Error()
	}
}
