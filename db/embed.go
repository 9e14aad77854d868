// Package db carries the registry's embedded database migrations.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
