package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileSource reads a worksheet exported to a local CSV file.
type FileSource struct {
	name string
	path string
}

func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

func (s *FileSource) Name() string {
	return s.name
}

// Path returns the file read by the source.
func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) Fetch(ctx context.Context) (Grid, error) {
	if err := ctx.Err(); err != nil {
		return Grid{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Grid{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return Grid{}, err
	}
	defer f.Close()

	grid, err := ReadCSV(f)
	if err != nil {
		return Grid{}, fmt.Errorf("%s: %w", s.path, err)
	}
	return grid, nil
}
