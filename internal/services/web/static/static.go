package static

import "embed"

// FS exposes agenda static assets for HTTP serving.
//
//go:embed *.css
var FS embed.FS
