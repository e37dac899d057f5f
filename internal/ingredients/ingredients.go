package ingredients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"
)

// ErrEmptySource is returned when no ingredient source is configured
var ErrEmptySource = errors.New("ingredient source not configured")

// List is an immutable, sorted set of ingredient names
type List struct {
	names []string
}

// NewList de-duplicates names case-insensitively and sorts them.
func NewList(names []string) *List {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return &List{names: out}
}

// Names returns a copy of every name
func (l *List) Names() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.names...)
}

// Len returns the number of names
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}

// Suggest returns up to limit names containing prefix. Names starting with
// it come first; limit <= 0 means no limit.
func (l *List) Suggest(prefix string, limit int) []string {
	if l == nil {
		return nil
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	var starts, contains []string
	for _, name := range l.names {
		lower := strings.ToLower(name)
		switch {
		case strings.HasPrefix(lower, prefix):
			starts = append(starts, name)
		case strings.Contains(lower, prefix):
			contains = append(contains, name)
		}
	}

	out := append(starts, contains...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Loader reads an ingredient list from a file path or an http(s) URL.
type Loader struct {
	Source     string
	HTTPClient *http.Client
}

type entry struct {
	Name string `json:"name"`
}

// Load fetches and parses the ingredient list
func (l *Loader) Load(ctx context.Context) (*List, error) {
	if strings.TrimSpace(l.Source) == "" {
		return nil, ErrEmptySource
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(l.Source, "http://") || strings.HasPrefix(l.Source, "https://") {
		data, err = l.fetch(ctx)
	} else {
		data, err = os.ReadFile(l.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ingredient list: %w", err)
	}

	return Parse(data)
}

// Parse decodes an array of objects with a name field
func Parse(data []byte) (*List, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse ingredient list: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return NewList(names), nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	httpClient := l.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Catalog holds the current ingredient list and swaps it on refresh
type Catalog struct {
	loader  *Loader
	current atomic.Pointer[List]
}

// NewCatalog creates an empty catalog backed by loader
func NewCatalog(loader *Loader) *Catalog {
	c := &Catalog{loader: loader}
	c.current.Store(NewList(nil))
	return c
}

// List returns the current list; never nil.
func (c *Catalog) List() *List {
	return c.current.Load()
}

// Refresh reloads the list. The previous list is kept on failure.
func (c *Catalog) Refresh(ctx context.Context) error {
	list, err := c.loader.Load(ctx)
	if err != nil {
		return err
	}
	c.current.Store(list)
	return nil
}
