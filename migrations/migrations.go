// Package migrations embeds the PostgreSQL schema. Each NNN_name.sql file has
// an optional NNN_name_rollback.sql counterpart.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
