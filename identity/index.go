package identity

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/titanous/json5"

	"nbacorpus/roster"
	"nbacorpus/store"
)

// Index is the local tier of identity resolution.
type Index interface {
	Lookup(ctx context.Context, name string) (roster.Entity, bool, error)
}

// FileIndex reads a "display name -> id" JSON object such as
// {"LeBron James": 2544, "Kevin Durant": "201142"}. The file is read once,
// on first lookup, and never written.
type FileIndex struct {
	path string

	once    sync.Once
	entries map[string]roster.Entity
	err     error
}

func NewFileIndex(path string) *FileIndex {
	return &FileIndex{path: path}
}

func (i *FileIndex) Lookup(_ context.Context, name string) (roster.Entity, bool, error) {
	i.once.Do(func() { i.entries, i.err = i.load() })
	if i.err != nil {
		return roster.Entity{}, false, i.err
	}
	e, ok := i.entries[normalize(name)]
	return e, ok, nil
}

// load returns an empty index when the file does not exist and a
// *store.CacheReadFailure when it cannot be parsed or holds two names that
// differ only in case.
func (i *FileIndex) load() (map[string]roster.Entity, error) {
	entries := map[string]roster.Entity{}
	if i.path == "" {
		return entries, nil
	}
	raw, err := os.ReadFile(i.path)
	if os.IsNotExist(err) {
		return entries, nil
	}
	if err != nil {
		return nil, &store.CacheReadFailure{Key: i.path, Err: err}
	}

	var parsed map[string]interface{}
	if err := json5.Unmarshal(raw, &parsed); err != nil {
		return nil, &store.CacheReadFailure{Key: i.path, Err: err}
	}
	for name, v := range parsed {
		id, err := parseID(v)
		if err != nil {
			return nil, &store.CacheReadFailure{Key: i.path, Err: fmt.Errorf("%s: %w", name, err)}
		}
		key := normalize(name)
		if prev, dup := entries[key]; dup {
			return nil, &store.CacheReadFailure{Key: i.path, Err: fmt.Errorf("%q and %q differ only in case", prev.DisplayName, name)}
		}
		entries[key] = roster.Entity{ID: id, DisplayName: name}
	}
	return entries, nil
}

func parseID(v interface{}) (int, error) {
	switch id := v.(type) {
	case float64:
		if id <= 0 || id != float64(int(id)) {
			return 0, fmt.Errorf("invalid id %v", id)
		}
		return int(id), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid id %q", id)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("invalid id %v", v)
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
