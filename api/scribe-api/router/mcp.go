// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package scribe_routers

import (
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rapidaai/scribe/config"
	"github.com/rapidaai/scribe/pkg/commons"
)

// McpRoutes mounts the MCP tools over streamable HTTP at /mcp.
func McpRoutes(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger, mcpServer *server.MCPServer) {
	logger.Info("MCP routes added to engine.")
	handler := gin.WrapH(server.NewStreamableHTTPServer(mcpServer, server.WithEndpointPath("/mcp")))
	engine.GET("/mcp", handler)
	engine.POST("/mcp", handler)
	engine.DELETE("/mcp", handler)
}
