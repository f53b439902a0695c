package domain

import "time"

// storageCallTimeout caps the time for a single persona operation from an
// MCP tool or resource handler.
const storageCallTimeout = 5 * time.Second
