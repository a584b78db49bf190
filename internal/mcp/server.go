// Package mcp exposes workout history and analytics as MCP tools and
// resources, backed by the IronLog REST API.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronLog workout tracker. Query routines, workout sessions, personal records, and training volume. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListRoutines, Handler: h.listRoutines},
		server.ServerTool{Tool: toolGetRoutine, Handler: h.getRoutine},
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolGetSessionDetail, Handler: h.getSessionDetail},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetWeeklyVolume, Handler: h.getWeeklyVolume},
		server.ServerTool{Tool: toolGetMuscleVolume, Handler: h.getMuscleVolume},
		server.ServerTool{Tool: toolGetStatsSummary, Handler: h.getStatsSummary},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resProfile, Handler: h.profile},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"ironlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("The user's most recent workout sessions with duration and volume totals"),
	mcp.WithMIMEType("application/json"),
)

var resProfile = mcp.NewResource(
	"ironlog://profile",
	"Profile",
	mcp.WithResourceDescription("The user's profile: level, XP, coins, and streak state"),
	mcp.WithMIMEType("application/json"),
)
