// Package mcp exposes the generator over the Model Context Protocol so
// agent sessions can drive runs and query the journal through stdio.
package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"shellsmith/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"shell_generate": {
		def:     generateToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGenerate },
	},
	"shell_validate": {
		def:     validateToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleValidate },
	},
	"shell_report": {
		def:     reportToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleReport },
	},
	"run_list": {
		def:     runListToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRunList },
	},
	"run_get": {
		def:     runGetToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRunGet },
	},
	"run_purge": {
		def:     runPurgeToolDef(),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRunPurge },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns the unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the shellsmith tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"shellsmith",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(db, cfg, version)
	return server.ServeStdio(s)
}

func generateToolDef() mcp.Tool {
	return mcp.NewTool("shell_generate",
		mcp.WithDescription("Generate the two printable shell halves from a parameter set, journal the run, and optionally export STL files."),
		mcp.WithObject("params",
			mcp.Description("Parameter overrides applied on top of the built-in defaults (same schema as a parameter file)."),
		),
		mcp.WithNumber("resolution_mm",
			mcp.Description("Sampling grid spacing in millimeters. Defaults to the configured sample resolution."),
		),
		mcp.WithBoolean("export",
			mcp.Description("Write both halves as binary STL files after generation."),
		),
		mcp.WithString("export_dir",
			mcp.Description("Directory for exported STL files. Must be an allowed export directory. Defaults to the exports directory."),
		),
	)
}

func validateToolDef() mcp.Tool {
	return mcp.NewTool("shell_validate",
		mcp.WithDescription("Validate a parameter set without generating geometry."),
		mcp.WithObject("params",
			mcp.Description("Parameter overrides applied on top of the built-in defaults."),
		),
	)
}

func reportToolDef() mcp.Tool {
	return mcp.NewTool("shell_report",
		mcp.WithDescription("Render the build sheet (dimensions, cutout schedule, assembly steps) for a parameter set or a journaled run."),
		mcp.WithObject("params",
			mcp.Description("Parameter overrides applied on top of the built-in defaults. Ignored when run_id is given."),
		),
		mcp.WithString("run_id",
			mcp.Description("Journaled run to report on; uses that run's recorded parameter set."),
		),
		mcp.WithString("format",
			mcp.Description("Output format: markdown (default) or html."),
		),
	)
}

func runListToolDef() mcp.Tool {
	return mcp.NewTool("run_list",
		mcp.WithDescription("List journaled generation runs, newest first."),
		mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100).")),
		mcp.WithNumber("offset", mcp.Description("Rows to skip.")),
		mcp.WithString("params_hash", mcp.Description("Only runs of this parameter set hash.")),
	)
}

func runGetToolDef() mcp.Tool {
	return mcp.NewTool("run_get",
		mcp.WithDescription("Fetch one journaled run by ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Run ULID.")),
	)
}

func runPurgeToolDef() mcp.Tool {
	return mcp.NewTool("run_purge",
		mcp.WithDescription("Delete journaled runs, either everything or runs older than a cutoff."),
		mcp.WithNumber("older_than_days", mcp.Description("Delete runs older than this many days.")),
		mcp.WithBoolean("all", mcp.Description("Delete all runs.")),
	)
}
