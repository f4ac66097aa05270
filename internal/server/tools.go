package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the required image path argument.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// detectionProperties returns the arguments shared by every detection tool,
// plus extra.
func detectionProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty,
		"min_points": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum foreground pixels a line must cover to be reported. Default 20",
			"default":     20,
		},
		"max_deviation": map[string]interface{}{
			"type":        "integer",
			"description": "Tolerance in pixels for points belonging to the same line. Larger values merge thicker or slightly curved strokes. Default 4",
			"default":     4,
		},
		"max_joint_distance": map[string]interface{}{
			"type":        "integer",
			"description": "Largest gap in pixels between two line ends that are still joined into one shape. 0 disables joining. Default 10",
			"default":     10,
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Brightness (1-255) at or above which a pixel counts as foreground after optional inversion. Default 128",
			"default":     128,
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Invert brightness before thresholding so dark strokes on a light background become foreground. Default true",
			"default":     true,
		},
		"mode": map[string]interface{}{
			"type":        "string",
			"description": "Mask preparation: 'threshold' uses brightness, 'edges' uses outlines of filled areas. Default 'threshold'",
			"enum":        []string{"threshold", "edges"},
			"default":     "threshold",
		},
		"dilate": map[string]interface{}{
			"type":        "number",
			"description": "Grow the foreground by this radius in pixels to close small gaps. Default 0 (off)",
			"default":     0,
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional region to analyse. Results are still reported in full image coordinates",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Shape Recovery
		{
			Name:        "image_find_lines",
			Description: "Find straight line segments in line art. Returns endpoints, length, angle, supporting pixel count and spread for each line, largest first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": detectionProperties(map[string]interface{}{
					"detect_arrows": map[string]interface{}{
						"type":        "boolean",
						"description": "Check both ends of each line for arrow heads",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_find_polylines",
			Description: "Find connected chains of line segments. Segments whose ends meet near a common corner are joined; each chain is returned as an ordered list of vertices.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_find_polygons",
			Description: "Find closed polygons: chains of line segments that return to their starting corner.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_find_quadrilaterals",
			Description: "Find closed four-sided polygons such as boxes and rotated rectangles. Every vertex is tagged 'rect_corner'.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_shapes_overlay",
			Description: "Run one detection stage and draw its results over the image, one colour per shape. Returns a base64-encoded PNG for visual verification.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": detectionProperties(map[string]interface{}{
					"stage": map[string]interface{}{
						"type":        "string",
						"description": "Detection stage to draw. Default 'polylines'",
						"enum":        []string{"lines", "polylines", "polygons", "quadrilaterals"},
						"default":     "polylines",
					},
					"stroke_width": map[string]interface{}{
						"type":        "number",
						"description": "Width of the drawn strokes in pixels. Default 2",
						"default":     2,
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
