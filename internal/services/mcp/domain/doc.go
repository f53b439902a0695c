// Package domain translates MCP tool and resource calls into persona
// lifecycle operations.
//
// Tool inputs address personas by resource name (personas/{persona}); every
// mutation runs through the same validation and storage path as the web
// forms.
package domain
