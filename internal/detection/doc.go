// Package detection recovers straight lines, polylines, polygons and
// quadrilaterals from a binary mask.
//
// The package is built for clean, mostly axis or diagonal aligned imagery such
// as scanned diagrams and masks produced by simple filters. It is a fixed
// budget, deterministic procedure, not a general line fitting library.
//
// # Pipeline
//
// Data flows strictly in one direction:
//
//	mask → points → segments → polylines → polygons → quadrilaterals
//
//  1. Point extraction: ExtractPoints collects foreground pixels (value >
//     ForegroundThreshold) in row-major order, at most MaxPoints of them.
//  2. Line clustering: FindLines projects the points onto a bank of 200
//     directions, votes the projections into a Histogram per direction and
//     repeatedly removes the largest cluster, fitting a Segment to it.
//  3. Intersection matching: segments are extended to three times their
//     length; endpoints of intersecting segments closer than
//     MaxJointDistance become join candidates, accepted greedily with at most
//     one join per endpoint.
//  4. Polyline assembly: AssemblePolylines walks the joins, replacing joined
//     endpoints with the intersection point.
//  5. Shape filters: ClosePolygons keeps polylines that return to their start
//     and FilterQuadrilaterals keeps four-sided polygons.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Degenerate Input
//
// No function in the pipeline returns an error. Empty masks, masks with
// fewer than MinPoints foreground pixels, parallel segments and zero-length
// segments all produce empty or shorter results. Only Params.Validate, used
// by the Detect* wrappers, rejects unusable parameters.
//
// # Concurrency
//
// Every call works on its own buffers, so independent calls may run in
// parallel. FindLines scores the 200 directions of each round on several
// goroutines; the outcome is identical to a sequential scan.
package detection
