// Package migrations embeds the SQL schema migrations
package migrations

import "embed"

// FS holds every NNN_name.up.sql / .down.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
