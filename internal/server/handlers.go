package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/shape-tools-mcp/internal/detection"
	"github.com/ironsheep/shape-tools-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_find_polygons").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errPathRequired is returned by every tool called without a path.
var errPathRequired = errors.New("path is required")

// handleToolsCall processes a tools/call request and executes the specified tool.
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
		s.log.Warn().Err(err).Msg("invalid tools/call params")
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Debug().
		Str("tool", params.Name).
		Dur("elapsed", time.Since(start)).
		Msg("tool finished")

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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the image or its prepared mask from the cache
//  4. Calls the appropriate imaging/detection function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Shape Recovery
	case "image_find_lines":
		return s.handleImageFindLines(args)
	case "image_find_polylines":
		return s.handleImageFindShapes(args, detection.DetectPolylines)
	case "image_find_polygons":
		return s.handleImageFindShapes(args, detection.DetectPolygons)
	case "image_find_quadrilaterals":
		return s.handleImageFindShapes(args, detection.DetectQuadrilaterals)
	case "image_shapes_overlay":
		return s.handleImageShapesOverlay(args)

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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Shape Recovery Handlers ===

// detectArgs are the arguments shared by every detection tool. Zero values
// take the defaults. Invert and MaxJointDistance are pointers because false
// and 0 are meaningful: 0 turns joining off.
type detectArgs struct {
	Path             string          `json:"path"`
	MinPoints        int             `json:"min_points"`
	MaxDeviation     int             `json:"max_deviation"`
	MaxJointDistance *int            `json:"max_joint_distance"`
	Threshold        int             `json:"threshold"`
	Invert           *bool           `json:"invert"`
	Mode             string          `json:"mode"`
	Dilate           float64         `json:"dilate"`
	Region           *imaging.Region `json:"region"`
}

// params returns the detection parameters with defaults applied.
func (a detectArgs) params() detection.Params {
	p := detection.DefaultParams()
	if a.MinPoints != 0 {
		p.MinPoints = a.MinPoints
	}
	if a.MaxDeviation != 0 {
		p.MaxDeviation = a.MaxDeviation
	}
	if a.MaxJointDistance != nil {
		p.MaxJointDistance = *a.MaxJointDistance
	}
	return p
}

// maskOptions returns the mask preparation options with defaults applied.
func (a detectArgs) maskOptions() (imaging.MaskOptions, error) {
	opts := imaging.DefaultMaskOptions()
	if a.Threshold != 0 {
		if a.Threshold < 1 || a.Threshold > 255 {
			return opts, fmt.Errorf("threshold must be between 1 and 255, got %d", a.Threshold)
		}
		opts.Threshold = uint8(a.Threshold)
	}
	if a.Invert != nil {
		opts.Invert = *a.Invert
	}
	if a.Mode != "" {
		opts.Mode = a.Mode
	}
	opts.DilateRadius = a.Dilate
	opts.Region = a.Region
	return opts, nil
}

// loadMask prepares (or fetches from the cache) the mask a detection tool
// runs on, and returns it with its offset in the image.
func (s *Server) loadMask(a detectArgs) (detection.Mask, image.Point, error) {
	if a.Path == "" {
		return nil, image.Point{}, errPathRequired
	}
	opts, err := a.maskOptions()
	if err != nil {
		return nil, image.Point{}, err
	}

	gray, offset, err := s.cache.LoadMask(a.Path, opts)
	if err != nil {
		return nil, image.Point{}, err
	}

	if e := s.log.Debug(); e.Enabled() {
		e.Str("path", a.Path).
			Str("mode", opts.Mode).
			Int("width", gray.Bounds().Dx()).
			Int("height", gray.Bounds().Dy()).
			Float64("coverage", imaging.MaskCoverage(gray)).
			Msg("mask ready")
	}
	return detection.MaskFromGray(gray), offset, nil
}

type imageFindLinesArgs struct {
	detectArgs
	DetectArrows bool `json:"detect_arrows"`
}

func (s *Server) handleImageFindLines(args json.RawMessage) (interface{}, error) {
	var a imageFindLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mask, offset, err := s.loadMask(a.detectArgs)
	if err != nil {
		return nil, err
	}

	result, err := detection.DetectLines(mask, detection.Options{
		Params:       a.params(),
		Offset:       offset,
		DetectArrows: a.DetectArrows,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("lines", result.Count).Msg("lines detected")
	return result, nil
}

// shapeDetector is one of the detection.Detect* shape stages.
type shapeDetector func(detection.Mask, detection.Options) (*detection.ShapesResult, error)

func (s *Server) handleImageFindShapes(args json.RawMessage, detect shapeDetector) (interface{}, error) {
	var a detectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mask, offset, err := s.loadMask(a)
	if err != nil {
		return nil, err
	}

	result, err := detect(mask, detection.Options{Params: a.params(), Offset: offset})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("kind", result.Kind).Int("shapes", result.Count).Msg("shapes detected")
	return result, nil
}

// overlayStages maps the overlay tool's stage names to detectors. Lines are
// drawn from DetectLines and have no entry here.
var overlayStages = map[string]shapeDetector{
	"lines":          nil,
	"polylines":      detection.DetectPolylines,
	"polygons":       detection.DetectPolygons,
	"quadrilaterals": detection.DetectQuadrilaterals,
}

type imageShapesOverlayArgs struct {
	detectArgs
	Stage       string  `json:"stage"`
	StrokeWidth float64 `json:"stroke_width"`
}

// shapesOverlayResult is the overlay image plus what was drawn on it.
type shapesOverlayResult struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
	*imaging.OverlayResult
}

func (s *Server) handleImageShapesOverlay(args json.RawMessage) (interface{}, error) {
	var a imageShapesOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Stage == "" {
		a.Stage = "polylines"
	}
	if a.StrokeWidth == 0 {
		a.StrokeWidth = 2
	}
	detect, ok := overlayStages[a.Stage]
	if !ok {
		return nil, fmt.Errorf("unknown stage: %s", a.Stage)
	}

	mask, offset, err := s.loadMask(a.detectArgs)
	if err != nil {
		return nil, err
	}
	opts := detection.Options{Params: a.params(), Offset: offset}

	var shapes []imaging.OverlayShape
	if detect == nil {
		result, err := detection.DetectLines(mask, opts)
		if err != nil {
			return nil, err
		}
		for _, l := range result.Lines {
			shapes = append(shapes, imaging.OverlayShape{
				Points: []imaging.PointF{{X: l.Start.X, Y: l.Start.Y}, {X: l.End.X, Y: l.End.Y}},
			})
		}
	} else {
		result, err := detect(mask, opts)
		if err != nil {
			return nil, err
		}
		for _, sh := range result.Shapes {
			pts := make([]imaging.PointF, len(sh.Points))
			for i, p := range sh.Points {
				pts[i] = imaging.PointF{X: p.X, Y: p.Y}
			}
			shapes = append(shapes, imaging.OverlayShape{Points: pts, Closed: sh.Closed})
		}
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	overlay, err := imaging.RenderOverlay(img, shapes, a.StrokeWidth)
	if err != nil {
		return nil, err
	}

	return &shapesOverlayResult{
		Stage:         a.Stage,
		Count:         len(shapes),
		OverlayResult: overlay,
	}, nil
}
