package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"shellsmith/internal/config"
	"shellsmith/internal/errors"
	"shellsmith/internal/export"
	"shellsmith/internal/journal"
	"shellsmith/internal/params"
	"shellsmith/internal/report"
	"shellsmith/internal/shell"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// GenerateRequest represents the arguments for shell_generate.
type GenerateRequest struct {
	Params       map[string]any `json:"params,omitempty"`
	ResolutionMM float64        `json:"resolution_mm,omitempty"`
	Export       bool           `json:"export,omitempty"`
	ExportDir    string         `json:"export_dir,omitempty"`
}

// ValidateRequest represents the arguments for shell_validate.
type ValidateRequest struct {
	Params map[string]any `json:"params,omitempty"`
}

// ReportRequest represents the arguments for shell_report.
type ReportRequest struct {
	Params map[string]any `json:"params,omitempty"`
	RunID  string         `json:"run_id,omitempty"`
	Format string         `json:"format,omitempty"`
}

// RunListRequest represents the arguments for run_list.
type RunListRequest struct {
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
	ParamsHash string `json:"params_hash,omitempty"`
}

// RunGetRequest represents the arguments for run_get.
type RunGetRequest struct {
	ID string `json:"id"`
}

// RunPurgeRequest represents the arguments for run_purge.
type RunPurgeRequest struct {
	OlderThanDays int  `json:"older_than_days,omitempty"`
	All           bool `json:"all,omitempty"`
}

// Response payload types

// BodySummary is the wire form of one generated half.
type BodySummary struct {
	Name      string  `json:"name"`
	VolumeMM3 float64 `json:"volume_mm3"`
	SizeX     float64 `json:"size_x_mm"`
	SizeY     float64 `json:"size_y_mm"`
	SizeZ     float64 `json:"size_z_mm"`
}

// GenerateResponse is the payload returned by shell_generate.
type GenerateResponse struct {
	RunID      string           `json:"run_id,omitempty"`
	ParamsHash string           `json:"params_hash"`
	Left       BodySummary      `json:"left"`
	Right      BodySummary      `json:"right"`
	Warnings   []errors.Warning `json:"warnings,omitempty"`
	Exports    []*export.Output `json:"exports,omitempty"`
	DurationMS int64            `json:"duration_ms"`
}

// mergeParams applies request overrides on top of the defaults and
// validates the merged set.
func mergeParams(overrides map[string]any) (*params.Params, error) {
	p := params.Default()
	if len(overrides) > 0 {
		b, err := json.Marshal(overrides)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		if err := json.Unmarshal(b, p); err != nil {
			return nil, errors.NewInvalidRequest("invalid params object: " + err.Error())
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Handler implementations

// HandleGenerate handles the shell_generate tool call.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	p, err := mergeParams(input.Params)
	if err != nil {
		return errorResult(err), nil
	}

	res := input.ResolutionMM
	if res <= 0 {
		res = h.cfg.SampleResolutionMM
	}

	started := time.Now()
	result, genErr := shell.Generate(ctx, p, res)
	duration := time.Since(started).Milliseconds()

	runID := h.record(ctx, p, result, genErr, duration)
	if genErr != nil {
		return errorResult(genErr), nil
	}

	resp := &GenerateResponse{
		RunID:      runID,
		ParamsHash: result.ParamsHash,
		Left:       summarize(result.Left),
		Right:      summarize(result.Right),
		Warnings:   result.Warnings,
		DurationMS: duration,
	}

	if input.Export {
		for _, body := range []shell.Body{result.Left, result.Right} {
			path := ""
			if input.ExportDir != "" {
				path = filepath.Join(input.ExportDir, export.SanitizeForFilename(body.Name)+".stl")
			}
			out, err := export.Export(ctx, h.cfg, export.Input{Path: path, Body: body})
			if err != nil {
				return errorResult(err), nil
			}
			resp.Exports = append(resp.Exports, out)
		}
	}

	return successResult(resp)
}

// record journals the run, successful or not. Journal failures are not
// fatal to the generation itself.
func (h *Handlers) record(ctx context.Context, p *params.Params, result *shell.Result, genErr error, durationMS int64) string {
	if h.db == nil {
		return ""
	}

	paramsJSON, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	run := &journal.Run{
		ParamsHash: p.Hash(),
		ParamsJSON: string(paramsJSON),
		DurationMS: durationMS,
	}
	if genErr != nil {
		run.Status = journal.StatusError
		run.ErrorMessage = genErr.Error()
		if sErr, ok := genErr.(*errors.ShellError); ok {
			run.ErrorCode = string(sErr.Code)
			run.ErrorMessage = sErr.Message
		}
	} else {
		run.Status = journal.StatusOK
		lv, rv := result.Left.VolumeMM3, result.Right.VolumeMM3
		run.LeftVolumeMM3 = &lv
		run.RightVolumeMM3 = &rv
		run.Warnings = result.Warnings
	}

	if err := journal.Record(ctx, h.db, run); err != nil {
		return ""
	}
	return run.ID
}

func summarize(b shell.Body) BodySummary {
	size := b.Bounds.Size()
	return BodySummary{
		Name:      b.Name,
		VolumeMM3: b.VolumeMM3,
		SizeX:     size.X,
		SizeY:     size.Y,
		SizeZ:     size.Z,
	}
}

// HandleValidate handles the shell_validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValidateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	p, err := mergeParams(input.Params)
	if err != nil {
		// Validation findings are the tool's answer, not a tool failure.
		if sErr, ok := err.(*errors.ShellError); ok && sErr.Code == errors.ErrConfiguration {
			return successResult(map[string]any{"valid": false, "reason": sErr.Message})
		}
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"valid":       true,
		"params_hash": p.Hash(),
		"outer_mm":    []float64{p.OuterWidth(), p.OuterHeight(), p.TotalHeight()},
	})
}

// HandleReport handles the shell_report tool call.
func (h *Handlers) HandleReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ReportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var p *params.Params
	if input.RunID != "" {
		run, err := journal.Get(ctx, h.db, input.RunID)
		if err != nil {
			return errorResult(err), nil
		}
		p = params.Default()
		if err := json.Unmarshal([]byte(run.ParamsJSON), p); err != nil {
			return errorResult(errors.NewInternal(err)), nil
		}
	} else {
		p, err = mergeParams(input.Params)
		if err != nil {
			return errorResult(err), nil
		}
	}

	in := report.Input{Params: p, At: time.Now()}
	switch input.Format {
	case "", "markdown":
		return successResult(map[string]string{"format": "markdown", "report": report.Markdown(in)})
	case "html":
		html, err := report.HTML(in)
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(map[string]string{"format": "html", "report": html})
	default:
		return errorResult(errors.NewInvalidRequest("format must be markdown or html")), nil
	}
}

// HandleRunList handles the run_list tool call.
func (h *Handlers) HandleRunList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RunListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	out, err := journal.List(ctx, h.db, journal.ListInput{
		Limit:      input.Limit,
		Offset:     input.Offset,
		ParamsHash: input.ParamsHash,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleRunGet handles the run_get tool call.
func (h *Handlers) HandleRunGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RunGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	run, err := journal.Get(ctx, h.db, input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(run)
}

// HandleRunPurge handles the run_purge tool call.
func (h *Handlers) HandleRunPurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RunPurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	out, err := journal.Purge(ctx, h.db, journal.PurgeInput{
		OlderThanDays: input.OlderThanDays,
		All:           input.All,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to avoid leaking file paths or
// SQL errors.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.ShellError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
		}
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
