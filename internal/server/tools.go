package server

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// noArgsSchema is the schema for tools that take no parameters.
func noArgsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools.
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Lifecycle
		{
			Name:        "image_store",
			Description: "Load an image file, split it into pages, and make it the session's active image. Replaces any previously stored image and resets paging statistics and the edit timeline.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file (PNG, JPEG, or GIF)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_export",
			Description: "Export the current image. Returns a base64-encoded PNG, or writes the file to 'path' if given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional output file path; format chosen from the extension",
					},
				},
			},
		},
		{
			Name:        "image_summary",
			Description: "Report the current image's dimensions and average color (hex, RGB, HSL).",
			InputSchema: noArgsSchema(),
		},

		// Editing Operations
		{
			Name:        "image_transform",
			Description: "Apply brightness, contrast, a filter, and a rotation to the current image, page by page. Reports the output dimensions and the paging hit/fault counters for the run.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"brightness": map[string]interface{}{
						"type":        "integer",
						"description": "Brightness delta in [-100,100] (default 0)",
						"default":     0,
					},
					"contrast": map[string]interface{}{
						"type":        "integer",
						"description": "Contrast delta in [-100,100] (default 0)",
						"default":     0,
					},
					"filter": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"none", "grayscale", "sepia", "invert"},
						"description": "Per-pixel filter (default none)",
						"default":     "none",
					},
					"rotation": map[string]interface{}{
						"type":        "integer",
						"enum":        []int{0, 90, 180, 270},
						"description": "Clockwise rotation in degrees (default 0)",
						"default":     0,
					},
				},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop the current image to the rectangle (x1,y1)-(x2,y2). Rebuilds the page set and resets the edit timeline.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x1": map[string]interface{}{"type": "integer", "description": "Left edge X (inclusive)"},
					"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y (inclusive)"},
					"x2": map[string]interface{}{"type": "integer", "description": "Right edge X (exclusive)"},
					"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y (exclusive)"},
				},
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_resize",
			Description: "Resize the current image. Rebuilds the page set and resets the edit timeline.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width":  map[string]interface{}{"type": "integer", "description": "Target width in pixels"},
					"height": map[string]interface{}{"type": "integer", "description": "Target height in pixels"},
				},
				"required": []string{"width", "height"},
			},
		},

		// Edit Timeline
		{
			Name:        "image_undo",
			Description: "Undo the most recent transform by replaying the remaining edits from the stored image.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "image_redo",
			Description: "Re-apply the most recently undone transform.",
			InputSchema: noArgsSchema(),
		},

		// Paging Introspection
		{
			Name:        "page_snapshot",
			Description: "List every page's ID, residency status, and recency stamp. Display only; carries no pixel data.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "page_stats",
			Description: "Report paging counters: hits, faults, resident/evicted page counts, and working-set usage.",
			InputSchema: noArgsSchema(),
		},
	}
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
