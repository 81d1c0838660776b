package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/image-pager/internal/paging"
)

var testGray = color.RGBA{128, 128, 128, 255}

// createTestImageFile writes a solid-color PNG and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs one tool through executeTool with JSON-encoded arguments.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (interface{}, error) {
	t.Helper()

	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal arguments: %v", err)
	}
	return s.executeTool(name, argsJSON)
}

// storeTestImage loads a width x height image into the server's session.
func storeTestImage(t *testing.T, s *Server, width, height int) {
	t.Helper()

	imgPath := createTestImageFile(t, width, height, testGray)
	if _, err := callTool(t, s, "image_store", map[string]interface{}{"path": imgPath}); err != nil {
		t.Fatalf("image_store failed: %v", err)
	}
}

func TestExecuteTool_ImageStore(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 8, 4, testGray)

	result, err := callTool(t, s, "image_store", map[string]interface{}{"path": imgPath})
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}

	sr, ok := result.(*StoreResult)
	if !ok {
		t.Fatalf("result type: got %T, want *StoreResult", result)
	}
	if sr.Width != 8 || sr.Height != 4 {
		t.Errorf("dimensions: got %dx%d, want 8x4", sr.Width, sr.Height)
	}
	// 32 pixels in 8-pixel pages.
	if sr.PageCount != 4 {
		t.Errorf("PageCount: got %d, want 4", sr.PageCount)
	}
	if sr.Stats.Hits != 0 || sr.Stats.Faults != 0 {
		t.Errorf("stats should be fresh after store: %+v", sr.Stats)
	}
}

func TestExecuteTool_ImageStore_MissingFile(t *testing.T) {
	s := newTestServer(t)

	_, err := callTool(t, s, "image_store", map[string]interface{}{"path": "/nonexistent/image.png"})
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestExecuteTool_ImageTransform(t *testing.T) {
	s := newTestServer(t)
	storeTestImage(t, s, 8, 4)

	result, err := callTool(t, s, "image_transform", map[string]interface{}{
		"filter":   "invert",
		"rotation": 90,
	})
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}

	tr, ok := result.(*TransformResult)
	if !ok {
		t.Fatalf("result type: got %T, want *TransformResult", result)
	}
	// Quarter turn swaps the dimensions.
	if tr.Width != 4 || tr.Height != 8 {
		t.Errorf("dimensions: got %dx%d, want 4x8", tr.Width, tr.Height)
	}
	if tr.Stats.Hits+tr.Stats.Faults == 0 {
		t.Error("transform run should have touched pages")
	}
}

func TestExecuteTool_ImageTransform_BadFilter(t *testing.T) {
	s := newTestServer(t)
	storeTestImage(t, s, 8, 4)

	_, err := callTool(t, s, "image_transform", map[string]interface{}{"filter": "posterize"})
	if err == nil {
		t.Fatal("Expected error for unknown filter name")
	}
}

func TestExecuteTool_ImageTransform_NoImage(t *testing.T) {
	s := newTestServer(t)

	_, err := callTool(t, s, "image_transform", map[string]interface{}{"rotation": 90})
	if err == nil {
		t.Fatal("Expected error when no image is stored")
	}
}

func TestExecuteTool_Crop(t *testing.T) {
	s := newTestServer(t)
	storeTestImage(t, s, 10, 10)

	result, err := callTool(t, s, "image_crop", map[string]interface{}{
		"x1": 2, "y1": 2, "x2": 8, "y2": 6,
	})
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}

	dr, ok := result.(*DimensionsResult)
	if !ok {
		t.Fatalf("result type: got %T, want *DimensionsResult", result)
	}
	if dr.Width != 6 || dr.Height != 4 {
		t.Errorf("dimensions: got %dx%d, want 6x4", dr.Width, dr.Height)
	}
}

func TestExecuteTool_Crop_OutOfBounds(t *testing.T) {
	s := newTestServer(t)
	storeTestImage(t, s, 10, 10)

	_, err := callTool(t, s, "image_crop", map[string]interface{}{
		"x1": 0, "y1": 0, "x2": 20, "y2": 20,
	})
	if err == nil {
		t.Fatal("Expected error for out-of-bounds crop")
	}
}

func TestExecuteTool_Resize(t *testing.T) {
	s := newTestServer(t)
	storeTestImage(t, s, 10, 10)

	result, err := callTool(t, s, "image_resize", map[string]interface{}{
		"width": 5, "height": 4,
	})
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}

	dr, ok := result.(*DimensionsResult)
	if !ok {
		t.Fatalf("result type: got %T, want *DimensionsResult", result)
	}
	if dr.Width != 5 || dr.Height != 4 {
		t.Errorf("dimensions: got %dx%d, want 5x4", dr.Width, dr.Height)
	}
}

func TestExecuteTool_UndoRedo(t *testing.T) {
	s := newTestServer(t)
	storeTestImage(t, s, 8, 4)

	if _, err := callTool(t, s, "image_transform", map[string]interface{}{"rotation": 90}); err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	result, err := s.executeTool("image_undo", nil)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	tl := result.(*TimelineResult)
	if tl.Width != 8 || tl.Height != 4 {
		t.Errorf("undo dimensions: got %dx%d, want 8x4", tl.Width, tl.Height)
	}
	if tl.CanUndo {
		t.Error("CanUndo should be false after undoing the only edit")
	}
	if !tl.CanRedo {
		t.Error("CanRedo should be true after an undo")
	}

	result, err = s.executeTool("image_redo", nil)
	if err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	tl = result.(*TimelineResult)
	if tl.Width != 4 || tl.Height != 8 {
		t.Errorf("redo dimensions: got %dx%d, want 4x8", tl.Width, tl.Height)
	}
	if !tl.CanUndo || tl.CanRedo {
		t.Errorf("timeline flags after redo: can_undo=%v can_redo=%v", tl.CanUndo, tl.CanRedo)
	}
}

func TestExecuteTool_Undo_Empty(t *testing.T) {
	s := newTestServer(t)
	storeTestImage(t, s, 8, 4)

	if _, err := s.executeTool("image_undo", nil); err == nil {
		t.Fatal("Expected error when nothing to undo")
	}
}

func TestExecuteTool_PageSnapshot(t *testing.T) {
	s := newTestServer(t)
	storeTestImage(t, s, 8, 4)

	result, err := s.executeTool("page_snapshot", nil)
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}

	snap, ok := result.(*SnapshotResult)
	if !ok {
		t.Fatalf("result type: got %T, want *SnapshotResult", result)
	}
	if len(snap.Pages) != 4 {
		t.Fatalf("page count: got %d, want 4", len(snap.Pages))
	}
	for i, p := range snap.Pages {
		if p.PageID != i {
			t.Errorf("page %d: PageID = %d", i, p.PageID)
		}
		if p.Status != "resident" && p.Status != "evicted" {
			t.Errorf("page %d: unexpected status %q", i, p.Status)
		}
	}
}

func TestExecuteTool_PageStats(t *testing.T) {
	s := newTestServer(t)
	storeTestImage(t, s, 8, 4)

	result, err := s.executeTool("page_stats", nil)
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}

	stats, ok := result.(paging.Stats)
	if !ok {
		t.Fatalf("result type: got %T, want paging.Stats", result)
	}
	if stats.ResidentCount+stats.EvictedCount != 4 {
		t.Errorf("resident+evicted: got %d, want 4", stats.ResidentCount+stats.EvictedCount)
	}
	// Budget of 2 page units caps residency.
	if stats.ResidentCount > 2 {
		t.Errorf("ResidentCount %d exceeds budget 2", stats.ResidentCount)
	}
}

func TestExecuteTool_ExportAndSummary(t *testing.T) {
	s := newTestServer(t)
	storeTestImage(t, s, 8, 4)

	if _, err := s.executeTool("image_export", nil); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "out.png")
	result, err := callTool(t, s, "image_export", map[string]interface{}{"path": outPath})
	if err != nil {
		t.Fatalf("export to file failed: %v", err)
	}
	if _, ok := result.(*SavedResult); !ok {
		t.Fatalf("result type: got %T, want *SavedResult", result)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("exported file missing: %v", err)
	}

	if _, err := s.executeTool("image_summary", nil); err != nil {
		t.Fatalf("summary failed: %v", err)
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := newTestServer(t)

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	_, err := s.executeTool("image_store", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`invalid json`),
	}

	resp := s.handleToolsCall(req)

	if resp.Error == nil {
		t.Fatal("Expected protocol error for invalid JSON params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_ToolFailure(t *testing.T) {
	s := newTestServer(t)

	params, _ := json.Marshal(map[string]interface{}{
		"name":      "image_transform",
		"arguments": map[string]interface{}{"rotation": 90},
	})
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  params,
	}

	resp := s.handleToolsCall(req)

	if resp.Error == nil {
		t.Fatal("Expected error when no image is stored")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_WrapsResultInContent(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 8, 4, testGray)

	params, _ := json.Marshal(map[string]interface{}{
		"name":      "image_store",
		"arguments": map[string]interface{}{"path": imgPath},
	})
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  params,
	}

	resp := s.handleToolsCall(req)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content should be a single-element list, got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}

	var decoded StoreResult
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &decoded); err != nil {
		t.Fatalf("content text is not the JSON result: %v", err)
	}
	if decoded.Width != 8 || decoded.Height != 4 {
		t.Errorf("decoded dimensions: got %dx%d, want 8x4", decoded.Width, decoded.Height)
	}
}
