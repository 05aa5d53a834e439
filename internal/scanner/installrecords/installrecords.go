// Package installrecords abstracts the operating system's record of
// installed applications (the uninstall registry on Windows, exported
// record files elsewhere) behind a small enumeration interface.
package installrecords

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

// Record is one installed application as the OS reports it.
type Record struct {
	DisplayName     string `json:"display_name"`
	InstallLocation string `json:"install_location"`
	DisplayIcon     string `json:"display_icon"`
}

// Enumerator lists installed applications.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]Record, error)
}

// DirEnumerator reads records from a directory of JSON files, one record
// per file. A missing directory yields no records.
type DirEnumerator struct {
	dir string
}

// NewDirEnumerator builds an enumerator over the given directory.
func NewDirEnumerator(dir string) *DirEnumerator {
	return &DirEnumerator{dir: dir}
}

func (e *DirEnumerator) Enumerate(ctx context.Context) ([]Record, error) {
	if e.dir == "" {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(e.dir, "*.json"))
	if err != nil || len(paths) == 0 {
		return nil, nil
	}
	sort.Strings(paths)

	var records []Record
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var record Record
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		if record.DisplayName == "" {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Static is a fixed record set, used in tests and for platforms without
// an installation record source.
type Static []Record

func (s Static) Enumerate(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []Record(s), nil
}
