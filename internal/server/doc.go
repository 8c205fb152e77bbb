// Package server implements the MCP (Model Context Protocol) server for diagram analysis tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the detection,
// refinement, evaluation, layering, and export pipeline through the MCP
// protocol, for Claude and other MCP-compatible clients.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Detection and refinement:
//   - diagram_detect: Detect and refine diagram elements in an image
//   - diagram_refine: Refine an externally supplied element list
//
// Evaluation:
//   - diagram_evaluate: Score predictions against ground truth
//   - diagram_evaluate_batch: Aggregate scores over several image pairs
//
// Layering and export:
//   - diagram_layer_order: Sort elements into compositing order
//   - diagram_export_drawio: Serialize elements as a draw.io document
//   - diagram_merge_drawio: Combine several draw.io documents
//
// Image utilities:
//   - image_load: Load an image and get its dimensions
//   - image_crop: Extract a rectangular region as base64 PNG
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
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
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
