// Package migrations embeds the PostgreSQL schema migrations so the migrate
// binary runs without a checkout of this directory.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file
//
//go:embed *.sql
var FS embed.FS
