// Package migrations embeds the SQL schema applied by the bootstrap command.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed *.sql
var files embed.FS

// Script is a named schema file.
type Script struct {
	Name string
	SQL  string
}

// Scripts returns the embedded schema files in lexical order.
func Scripts() ([]Script, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	scripts := make([]Script, 0, len(names))
	for _, name := range names {
		raw, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, Script{Name: name, SQL: string(raw)})
	}
	return scripts, nil
}
