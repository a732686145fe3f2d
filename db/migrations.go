// Package db carries the SQL migrations so the migration binary works
// without the source tree next to it.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
