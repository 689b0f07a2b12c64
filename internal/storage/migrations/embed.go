// Package migrations applies the embedded schema files for both storage
// backends. Files run in lexical order and are written to be idempotent.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed clickhouse/*.sql
var clickhouseFS embed.FS

// sqlFile is one embedded migration with its body already loaded.
type sqlFile struct {
	name string
	body string
}

// loadSQL returns the directory's non-blank .sql files in lexical order.
func loadSQL(fsys fs.FS, dir string) ([]sqlFile, error) {
	paths, err := fs.Glob(fsys, dir+"/*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob %s migrations: %w", dir, err)
	}

	files := make([]sqlFile, 0, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", p, err)
		}
		body := string(data)
		if strings.TrimSpace(body) == "" {
			continue
		}
		files = append(files, sqlFile{name: path.Base(p), body: body})
	}
	return files, nil
}
