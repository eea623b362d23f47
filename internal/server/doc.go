// Package server implements the MCP (Model Context Protocol) server for room
// analysis tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Images:
//   - image_load: Load a JPEG or PNG photo and get metadata
//
// Room Analysis:
//   - room_detect: Run the object detector
//   - room_analyze: Full heuristic analysis; replaces the current report
//   - room_report: Read the current report or one section of it
//   - room_clear: Discard the current report (and optionally cached images)
//   - room_classify: Room type and style from labels alone
//   - room_annotate: Draw detection boxes on the photo
//   - room_crop_object: Crop one detected object
//
// Color Palettes:
//   - color_palette_extract: Dominant colors plus closest style palettes
//   - color_palette_styles: List the curated style palettes
//
// # Progress
//
// When a room_analyze call carries params._meta.progressToken, the server
// emits one notifications/progress message per pipeline stage before the
// final response:
//
//	{"jsonrpc":"2.0","method":"notifications/progress",
//	 "params":{"progressToken":"t1","progress":20,"total":100,"message":"Detecting objects and furniture..."}}
//
// # Session
//
// The server holds at most one analysis report. Starting a new analysis
// discards the previous report before any work begins, so a failed analysis
// leaves no report behind.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for malformed or missing arguments, -32000 for any other
//     tool failure, -32601 for unknown methods
//   - message: Human-readable error description
//   - data: The Go error string
package server
