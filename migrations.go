package ssocache

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the goose migrations creating the default cache table.
// Files sit at the root of the returned filesystem.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		// The directory is embedded at compile time.
		panic(err)
	}
	return sub
}
