// Package server exposes one image-editing session over the MCP protocol
// (JSON-RPC 2.0 on stdin/stdout).
//
// The server owns a single session and publishes its operations as tools:
// storing an image, running paged transforms, cropping, resizing, undo/redo,
// page-table snapshots, paging statistics, and export. The paging core's
// observable signals — page swap-ins and swap-outs, statistics updates, and
// transform lifecycle events — are forwarded to the client as JSON-RPC
// notifications and mirrored to the structured log.
//
// # Protocol
//
// Requests are newline-delimited JSON objects. The server answers
// initialize, tools/list, tools/call, and ping; unknown methods produce a
// -32601 error. Tool execution failures are reported with code -32000 and
// the failure message in the error data, never as a partial result.
//
// # Notifications
//
// Residency and lifecycle events map to methods under "notifications/":
//
//	notifications/page/swapped_in      {"page_id": n}
//	notifications/page/swapped_out     {"page_id": n}
//	notifications/page/stats_updated   paging.Stats
//	notifications/transform/started    the transform request
//	notifications/transform/completed  {"width": w, "height": h, "stats": ...}
//	notifications/transform/error      {"error": "..."}
//
// Notifications are emitted inline, interleaved with responses on the same
// output stream, which JSON-RPC permits.
package server
