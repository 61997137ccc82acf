package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"shellsmith/internal/config"
	"shellsmith/internal/journal"
)

// testSetup creates a temporary journal and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	database, err := journal.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init journal: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // allow temp dirs in tests
	return database, cfg
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// smallShellParams is a parameter override that keeps geometry fast:
// tiny envelope, no cutouts.
func smallShellParams() map[string]any {
	return map[string]any{
		"tablet_width":         30.0,
		"tablet_height":        24.0,
		"tablet_thickness":     6.0,
		"wall_thickness":       2.0,
		"clearance":            0.5,
		"lip_vertical":         1.5,
		"lip_overhang":         2.0,
		"lip_overhang_bottom":  2.0,
		"corner_fillet_radius": 2.0,
		"edge_fillet_radius":   1.0,
		"inner_fillet_radius":  2.0,
		"vent_hole_count":      0,
		"port_cutouts":         []any{},
		"kickstand_cutouts":    []any{},
		"camera_cutout":        nil,
		"bottom_window":        map[string]any{"enable": false},
	}
}

func decodePayload(t *testing.T, result *mcp.CallToolResult, out any) {
	t.Helper()
	text := result.Content[0].(mcp.TextContent).Text
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("failed to decode payload %q: %v", text, err)
	}
}

func errorCode(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodePayload(t, result, &payload)
	return payload.Error.Code
}

func TestHandleGenerate(t *testing.T) {
	db, cfg := testSetup(t)
	h := NewHandlers(db, cfg)

	result, err := h.HandleGenerate(context.Background(), makeRequest(map[string]any{
		"params":        smallShellParams(),
		"resolution_mm": 1.0,
	}))
	if err != nil {
		t.Fatalf("HandleGenerate returned transport error: %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleGenerate failed: %v", result.Content)
	}

	var resp GenerateResponse
	decodePayload(t, result, &resp)

	if resp.RunID == "" {
		t.Error("generate must journal the run and return its ID")
	}
	if resp.Left.VolumeMM3 <= 0 || resp.Right.VolumeMM3 <= 0 {
		t.Errorf("half volumes must be positive: %+v", resp)
	}
	if resp.Left.Name != "Left_Half_Final" {
		t.Errorf("left body name = %q", resp.Left.Name)
	}

	// The journaled run is fetchable and successful.
	getResult, err := h.HandleRunGet(context.Background(), makeRequest(map[string]any{"id": resp.RunID}))
	if err != nil || getResult.IsError {
		t.Fatalf("run_get failed: %v %v", err, getResult)
	}
	var run journal.Run
	decodePayload(t, getResult, &run)
	if run.Status != journal.StatusOK || run.LeftVolumeMM3 == nil {
		t.Errorf("journaled run wrong: %+v", run)
	}
}

func TestHandleGenerateInvalidParams(t *testing.T) {
	db, cfg := testSetup(t)
	h := NewHandlers(db, cfg)

	result, err := h.HandleGenerate(context.Background(), makeRequest(map[string]any{
		"params": map[string]any{"wall_thickness": -1.0},
	}))
	if err != nil {
		t.Fatalf("HandleGenerate returned transport error: %v", err)
	}
	if !result.IsError {
		t.Fatal("invalid params must produce an error result")
	}
	if code := errorCode(t, result); code != "CONFIGURATION" {
		t.Errorf("error code = %q, want CONFIGURATION", code)
	}
}

func TestHandleGenerateJournalsFailedRun(t *testing.T) {
	db, cfg := testSetup(t)
	h := NewHandlers(db, cfg)

	p := smallShellParams()
	p["inner_fillet_radius"] = 120.0

	result, err := h.HandleGenerate(context.Background(), makeRequest(map[string]any{
		"params": p, "resolution_mm": 1.0,
	}))
	if err != nil {
		t.Fatalf("HandleGenerate returned transport error: %v", err)
	}
	if !result.IsError {
		t.Fatal("oversized fillet must fail the run")
	}
	if code := errorCode(t, result); code != "FILLET" {
		t.Errorf("error code = %q, want FILLET", code)
	}

	listResult, err := h.HandleRunList(context.Background(), makeRequest(nil))
	if err != nil || listResult.IsError {
		t.Fatalf("run_list failed: %v %v", err, listResult)
	}
	var list journal.ListOutput
	decodePayload(t, listResult, &list)
	if list.Total != 1 || list.Runs[0].Status != journal.StatusError || list.Runs[0].ErrorCode != "FILLET" {
		t.Errorf("failed run not journaled: %+v", list)
	}
}

func TestHandleGenerateExports(t *testing.T) {
	db, cfg := testSetup(t)
	h := NewHandlers(db, cfg)
	dir := t.TempDir()

	result, err := h.HandleGenerate(context.Background(), makeRequest(map[string]any{
		"params":        smallShellParams(),
		"resolution_mm": 1.0,
		"export":        true,
		"export_dir":    dir,
	}))
	if err != nil {
		t.Fatalf("HandleGenerate returned transport error: %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleGenerate failed: %v", result.Content)
	}

	var resp GenerateResponse
	decodePayload(t, result, &resp)
	if len(resp.Exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(resp.Exports))
	}
	for _, out := range resp.Exports {
		if _, err := os.Stat(out.Path); err != nil {
			t.Errorf("exported file missing: %v", err)
		}
		if filepath.Dir(out.Path) != dir {
			t.Errorf("export landed in %s, want %s", filepath.Dir(out.Path), dir)
		}
	}
}

func TestHandleValidate(t *testing.T) {
	db, cfg := testSetup(t)
	h := NewHandlers(db, cfg)

	result, err := h.HandleValidate(context.Background(), makeRequest(map[string]any{
		"params": smallShellParams(),
	}))
	if err != nil || result.IsError {
		t.Fatalf("HandleValidate failed: %v %v", err, result)
	}
	var ok struct {
		Valid bool `json:"valid"`
	}
	decodePayload(t, result, &ok)
	if !ok.Valid {
		t.Error("small shell params should validate")
	}

	// A configuration violation is the tool's answer, not a tool error.
	result, err = h.HandleValidate(context.Background(), makeRequest(map[string]any{
		"params": map[string]any{"clearance": -1.0},
	}))
	if err != nil || result.IsError {
		t.Fatalf("HandleValidate on bad params failed: %v %v", err, result)
	}
	var bad struct {
		Valid  bool   `json:"valid"`
		Reason string `json:"reason"`
	}
	decodePayload(t, result, &bad)
	if bad.Valid || bad.Reason == "" {
		t.Errorf("expected invalid verdict with reason, got %+v", bad)
	}
}

func TestHandleReport(t *testing.T) {
	db, cfg := testSetup(t)
	h := NewHandlers(db, cfg)

	result, err := h.HandleReport(context.Background(), makeRequest(nil))
	if err != nil || result.IsError {
		t.Fatalf("HandleReport failed: %v %v", err, result)
	}
	var md struct {
		Format string `json:"format"`
		Report string `json:"report"`
	}
	decodePayload(t, result, &md)
	if md.Format != "markdown" || !strings.Contains(md.Report, "# Shell Build Sheet") {
		t.Errorf("markdown report wrong: %+v", md.Format)
	}

	result, err = h.HandleReport(context.Background(), makeRequest(map[string]any{"format": "html"}))
	if err != nil || result.IsError {
		t.Fatalf("HandleReport html failed: %v %v", err, result)
	}
	var html struct {
		Report string `json:"report"`
	}
	decodePayload(t, result, &html)
	if !strings.Contains(html.Report, "<h1") {
		t.Error("html report missing markup")
	}

	result, err = h.HandleReport(context.Background(), makeRequest(map[string]any{"format": "pdf"}))
	if err != nil {
		t.Fatalf("HandleReport returned transport error: %v", err)
	}
	if !result.IsError {
		t.Error("unknown format must produce an error result")
	}
}

func TestHandleReportFromJournaledRun(t *testing.T) {
	db, cfg := testSetup(t)
	h := NewHandlers(db, cfg)

	genResult, err := h.HandleGenerate(context.Background(), makeRequest(map[string]any{
		"params":        smallShellParams(),
		"resolution_mm": 1.0,
	}))
	if err != nil || genResult.IsError {
		t.Fatalf("generate failed: %v %v", err, genResult)
	}
	var resp GenerateResponse
	decodePayload(t, genResult, &resp)

	result, err := h.HandleReport(context.Background(), makeRequest(map[string]any{"run_id": resp.RunID}))
	if err != nil || result.IsError {
		t.Fatalf("HandleReport from run failed: %v %v", err, result)
	}
	var md struct {
		Report string `json:"report"`
	}
	decodePayload(t, result, &md)
	// The journaled parameter set, not the defaults: tiny envelope.
	if !strings.Contains(md.Report, "| Outer envelope | 35.0 | 29.0 |") {
		t.Errorf("report not built from the journaled run:\n%s", md.Report)
	}

	result, err = h.HandleReport(context.Background(), makeRequest(map[string]any{"run_id": "01JUNKJUNKJUNKJUNKJUNKJUNK"}))
	if err != nil {
		t.Fatalf("HandleReport returned transport error: %v", err)
	}
	if !result.IsError {
		t.Error("unknown run must produce an error result")
	}
	if code := errorCode(t, result); code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", code)
	}
}

func TestHandleRunPurge(t *testing.T) {
	db, cfg := testSetup(t)
	h := NewHandlers(db, cfg)

	for i := 0; i < 2; i++ {
		result, err := h.HandleGenerate(context.Background(), makeRequest(map[string]any{
			"params":        smallShellParams(),
			"resolution_mm": 1.0,
		}))
		if err != nil || result.IsError {
			t.Fatalf("generate failed: %v %v", err, result)
		}
	}

	result, err := h.HandleRunPurge(context.Background(), makeRequest(map[string]any{"all": true}))
	if err != nil || result.IsError {
		t.Fatalf("run_purge failed: %v %v", err, result)
	}
	var out journal.PurgeOutput
	decodePayload(t, result, &out)
	if out.Deleted != 2 {
		t.Errorf("purged %d, want 2", out.Deleted)
	}

	result, err = h.HandleRunPurge(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("run_purge returned transport error: %v", err)
	}
	if !result.IsError {
		t.Error("unqualified purge must produce an error result")
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"shell_generate", "capsule_store", "run_list"})
	if len(unknown) != 1 || unknown[0] != "capsule_store" {
		t.Errorf("unknown tools = %v, want [capsule_store]", unknown)
	}

	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Errorf("AllToolNames returned %d names, registry has %d", len(names), len(toolRegistry))
	}
}
