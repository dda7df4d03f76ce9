// Package migrations embeds the goose SQL migrations for the PostgreSQL
// entry store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
