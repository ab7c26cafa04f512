// Package migrations embeds the SQL schema migrations shared by the
// postgres and sqlite stores.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
