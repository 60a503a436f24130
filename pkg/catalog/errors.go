package catalog

import "fmt"

// Error types
var (
	ErrNotScanned = fmt.Errorf("no codebase scanned")
	ErrOutOfScope = fmt.Errorf("path outside the scanned codebase")
	ErrNotFound   = fmt.Errorf("not found")
)
