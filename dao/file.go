package dao

import (
	"context"
	"os"
	"strconv"
	"strings"
)

type fileSource struct {
	path string
}

// File reads t from a text file holding one number.
// The file is read on every call.
func File(path string) DataSource {
	return fileSource{path: path}
}

func (s fileSource) Value(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, unavailable("file", s.path, err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return 0, unavailable("file", s.path, err)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, unavailable("file", s.path, err)
	}
	return v, nil
}
