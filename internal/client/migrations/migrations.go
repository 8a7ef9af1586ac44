// Package migrations embeds the SQL schema migrations applied to the local
// capture database by goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
