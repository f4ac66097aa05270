// Package server implements the MCP (Model Context Protocol) server for the
// shape recovery tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//   - Logs: structured zerolog output on the writer given to NewWithLogger
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Lines that are not valid JSON-RPC are logged and skipped.
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Shape Recovery:
//   - image_find_lines: Straight segments with length, angle and support
//   - image_find_polylines: Segments joined at shared corners
//   - image_find_polygons: Closed polylines
//   - image_find_quadrilaterals: Closed four-sided polygons
//   - image_shapes_overlay: Draw one stage's results over the image
//
// Every shape tool accepts the same mask options (threshold, invert, mode,
// dilate, region) and detection tunables (min_points, max_deviation,
// max_joint_distance). Results are always in full image coordinates.
//
// # Image Caching
//
// Decoded images and prepared masks are cached by path for the lifetime of
// the process, so running several stages on one image prepares its mask once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	log := logger.New(os.Stderr, zerolog.InfoLevel)
//	srv := server.NewWithLogger(log)
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server stopped")
//	}
package server
