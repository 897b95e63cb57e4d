// Package migrations embeds the SQL migrations so the server and the migrate
// command can run them without a migrations directory on disk.
package migrations

import "embed"

// FS holds every <version>_<name>.<up|down>.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
