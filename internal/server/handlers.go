package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/image-pager/internal/codec"
	"github.com/ironsheep/image-pager/internal/paging"
	"github.com/ironsheep/image-pager/internal/transform"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_store", "image_transform").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified
// tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Lifecycle
	case "image_store":
		return s.handleImageStore(args)
	case "image_export":
		return s.handleImageExport(args)
	case "image_summary":
		return s.handleImageSummary()

	// Editing Operations
	case "image_transform":
		return s.handleImageTransform(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_resize":
		return s.handleImageResize(args)

	// Edit Timeline
	case "image_undo":
		return s.handleImageUndo()
	case "image_redo":
		return s.handleImageRedo()

	// Paging Introspection
	case "page_snapshot":
		return s.handlePageSnapshot()
	case "page_stats":
		return s.handlePageStats()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Lifecycle Handlers ===

type imageStoreArgs struct {
	Path string `json:"path"`
}

// StoreResult reports the outcome of storing an image.
type StoreResult struct {
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	PageCount int          `json:"page_count"`
	Stats     paging.Stats `json:"stats"`
}

func (s *Server) handleImageStore(args json.RawMessage) (interface{}, error) {
	var a imageStoreArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	buf, err := codec.DecodeFile(a.Path)
	if err != nil {
		return nil, err
	}
	if err := s.session.StoreImage(buf.Pix, buf.Width, buf.Height); err != nil {
		return nil, err
	}

	return &StoreResult{
		Width:     buf.Width,
		Height:    buf.Height,
		PageCount: len(s.session.Snapshot()),
		Stats:     s.session.Stats(),
	}, nil
}

type imageExportArgs struct {
	Path string `json:"path"`
}

// SavedResult reports a file-system export.
type SavedResult struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleImageExport(args json.RawMessage) (interface{}, error) {
	var a imageExportArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}

	if a.Path != "" {
		if err := s.session.SaveTo(a.Path); err != nil {
			return nil, err
		}
		w, h := s.session.Size()
		return &SavedResult{Path: a.Path, Width: w, Height: h}, nil
	}
	return s.session.Export()
}

func (s *Server) handleImageSummary() (interface{}, error) {
	return s.session.Summary()
}

// === Editing Operation Handlers ===

type imageTransformArgs struct {
	Brightness int    `json:"brightness"`
	Contrast   int    `json:"contrast"`
	Filter     string `json:"filter"`
	Rotation   int    `json:"rotation"`
}

// TransformResult reports one paged transform run.
type TransformResult struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Stats  paging.Stats `json:"stats"`
}

func (s *Server) handleImageTransform(args json.RawMessage) (interface{}, error) {
	var a imageTransformArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}

	filter, err := transform.ParseFilter(a.Filter)
	if err != nil {
		return nil, err
	}
	res, err := s.session.Transform(transform.Request{
		Brightness: a.Brightness,
		Contrast:   a.Contrast,
		Filter:     filter,
		Rotation:   a.Rotation,
	})
	if err != nil {
		return nil, err
	}

	return &TransformResult{Width: res.Width, Height: res.Height, Stats: res.Stats}, nil
}

type imageCropArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// DimensionsResult reports the image dimensions after a geometry change.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.session.Crop(a.X1, a.Y1, a.X2, a.Y2); err != nil {
		return nil, err
	}
	w, h := s.session.Size()
	return &DimensionsResult{Width: w, Height: h}, nil
}

type imageResizeArgs struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleImageResize(args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.session.Resize(a.Width, a.Height); err != nil {
		return nil, err
	}
	w, h := s.session.Size()
	return &DimensionsResult{Width: w, Height: h}, nil
}

// === Edit Timeline Handlers ===

// TimelineResult reports the timeline position after an undo or redo.
type TimelineResult struct {
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

func (s *Server) timelineResult() *TimelineResult {
	w, h := s.session.Size()
	return &TimelineResult{
		Width:   w,
		Height:  h,
		CanUndo: s.session.CanUndo(),
		CanRedo: s.session.CanRedo(),
	}
}

func (s *Server) handleImageUndo() (interface{}, error) {
	if err := s.session.Undo(); err != nil {
		return nil, err
	}
	return s.timelineResult(), nil
}

func (s *Server) handleImageRedo() (interface{}, error) {
	if err := s.session.Redo(); err != nil {
		return nil, err
	}
	return s.timelineResult(), nil
}

// === Paging Introspection Handlers ===

// PageEntry is one page's bookkeeping in display form.
type PageEntry struct {
	PageID       int    `json:"page_id"`
	Status       string `json:"status"`
	LastAccessed uint64 `json:"last_accessed"`
}

// SnapshotResult lists the page table for display.
type SnapshotResult struct {
	Pages []PageEntry `json:"pages"`
}

func (s *Server) handlePageSnapshot() (interface{}, error) {
	infos := s.session.Snapshot()
	pages := make([]PageEntry, len(infos))
	for i, info := range infos {
		pages[i] = PageEntry{
			PageID:       info.ID,
			Status:       info.Status.String(),
			LastAccessed: info.LastAccessed,
		}
	}
	return &SnapshotResult{Pages: pages}, nil
}

func (s *Server) handlePageStats() (interface{}, error) {
	return s.session.Stats(), nil
}
