// Package migrations holds the goose SQL files that build the snapshot store.
// Files are named NNNNN_description.sql and applied in version order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
