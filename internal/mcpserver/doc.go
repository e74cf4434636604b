// Package mcpserver exposes the configuration engine over the Model Context
// Protocol. It runs an SSE server whose tools mirror the CLI surface: app
// listing and inspection, combination validation, default version selection,
// matrix generation and key resolution.
package mcpserver
