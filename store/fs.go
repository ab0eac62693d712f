package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"nbacorpus/table"
	"nbacorpus/utils"
)

const csvExt = ".csv"

// FS keeps each key as <root>/<key>.csv.
type FS struct {
	root string
}

func NewFS(root string) *FS {
	return &FS{root: root}
}

func (s *FS) Root() string { return s.root }

// Path returns the file backing key.
func (s *FS) Path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key)+csvExt)
}

func (s *FS) Get(_ context.Context, key string) (*table.Table, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, &CacheReadFailure{Key: key, Err: err}
	}
	defer f.Close()

	t, err := table.ReadCSV(f)
	if err != nil {
		return nil, &CacheReadFailure{Key: key, Err: err}
	}
	return t, nil
}

// Put writes to a temporary file in the target directory and renames it
// into place, so readers see either the old or the new file.
func (s *FS) Put(_ context.Context, key string, t *table.Table) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	dst := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return utils.ErrorWithTrace(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*"+csvExt)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := t.WriteCSV(tmp); err != nil {
		tmp.Close()
		return utils.ErrorWithTrace(err)
	}
	if err := tmp.Close(); err != nil {
		return utils.ErrorWithTrace(err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return utils.ErrorWithTrace(err)
	}
	return nil
}

func (s *FS) Exists(_ context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	return utils.FileExists(s.Path(key))
}

// Keys lists every stored key in lexical order. Temporary files are skipped.
func (s *FS) Keys(_ context.Context) ([]string, error) {
	keys := []string{}
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == s.root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), csvExt) || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, strings.TrimSuffix(filepath.ToSlash(rel), csvExt))
		return nil
	})
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	sort.Strings(keys)
	return keys, nil
}
