// Package dataset downloads, caches, and lazily loads the per-state datasets
// backing lookups: TIGER address ranges and block polygons, PL 94-171
// redistricting counts, and ACS 5-Year tract estimates.
package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Entry records one cached dataset file.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	State     string    `json:"state"`
	Path      string    `json:"path"`
	SourceURL string    `json:"source_url,omitempty"`
	SizeBytes int64     `json:"size_bytes"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Catalog tracks cached dataset files in a JSON file under the data
// directory. Safe for concurrent use.
type Catalog struct {
	mu      sync.Mutex
	path    string
	entries []Entry
}

// OpenCatalog loads the catalog at path, starting empty if absent.
func OpenCatalog(path string) (*Catalog, error) {
	c := &Catalog{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read catalog %s", path)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, eris.Wrapf(err, "dataset: parse catalog %s", path)
	}
	return c, nil
}

// Record upserts an entry for (kind, state) and persists the catalog.
func (c *Catalog) Record(kind, state, path, sourceURL string) error {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := Entry{
		ID:        uuid.New().String(),
		Kind:      kind,
		State:     state,
		Path:      path,
		SourceURL: sourceURL,
		SizeBytes: size,
		FetchedAt: time.Now().UTC(),
	}
	for i, e := range c.entries {
		if e.Kind == kind && e.State == state && e.Path == path {
			entry.ID = e.ID
			c.entries[i] = entry
			return c.save()
		}
	}
	c.entries = append(c.entries, entry)
	return c.save()
}

// Lookup returns the entries for (kind, state).
func (c *Catalog) Lookup(kind, state string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Entry
	for _, e := range c.entries {
		if e.Kind == kind && e.State == state {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns a copy of all entries.
func (c *Catalog) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

// Remove drops entries matching (kind, state) and deletes their files.
// Empty kind or state match everything.
func (c *Catalog) Remove(kind, state string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.entries[:0]
	for _, e := range c.entries {
		if (kind == "" || e.Kind == kind) && (state == "" || e.State == state) {
			_ = os.Remove(e.Path)
			continue
		}
		kept = append(kept, e)
	}
	c.entries = kept
	return c.save()
}

// TotalSize sums the recorded size of all entries, optionally per state.
func (c *Catalog) TotalSize(state string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, e := range c.entries {
		if state == "" || e.State == state {
			total += e.SizeBytes
		}
	}
	return total
}

func (c *Catalog) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "dataset: marshal catalog")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return eris.Wrap(err, "dataset: create catalog dir")
	}
	return eris.Wrap(os.WriteFile(c.path, data, 0o644), "dataset: write catalog")
}
