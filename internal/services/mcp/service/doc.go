// Package service wires MCP transport to the persona domain handlers.
//
// It knows how to run MCP over stdio and delegates business meaning to the
// handlers in the domain package.
package service
