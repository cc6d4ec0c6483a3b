// Package migrations holds the versioned schema of the embedding cache.
// Files are named NNN_name.up.sql / NNN_name.down.sql and applied in order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
