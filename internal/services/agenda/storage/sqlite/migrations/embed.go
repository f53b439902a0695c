package migrations

import "embed"

// FS contains embedded SQLite migrations for persona storage.
//
//go:embed *.sql
var FS embed.FS
