package migrations

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed *.sql
var sqlFiles embed.FS

type File struct {
	Name string
	SQL  string
}

func Files() ([]File, error) {
	names, err := fs.Glob(sqlFiles, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]File, 0, len(names))
	for _, name := range names {
		b, err := sqlFiles.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, File{Name: name, SQL: string(b)})
	}
	return out, nil
}
