package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"
	"time"
)

// layoutMarker is the file that makes a theme directory usable. A theme
// without a root layout cannot render anything, so it is treated as absent.
const layoutMarker = "layout.html"

// themesDir is the directory under the templates root holding one
// subdirectory per installed theme.
const themesDir = "themes"

// Catalog reports which themes are installed and usable. A missing themes
// directory means no themes; any other scan failure is returned so callers
// can retry instead of degrading every shop to the fallback theme.
type Catalog interface {
	// IsValid reports whether the named theme exists and carries a root
	// layout.
	IsValid(name string) (bool, error)
	// List returns the usable theme names sorted alphabetically. The
	// fallback theme is always part of the result, so the list is never
	// empty.
	List() ([]string, error)
}

// CatalogOption configures catalog behaviour.
type CatalogOption func(*fsCatalog)

// WithCatalogTTL sets how long a directory scan is reused before the
// filesystem is consulted again. Zero disables caching.
func WithCatalogTTL(ttl time.Duration) CatalogOption {
	return func(c *fsCatalog) {
		c.ttl = ttl
	}
}

// WithCatalogClock overrides the time source used for snapshot expiry.
func WithCatalogClock(clock func() time.Time) CatalogOption {
	return func(c *fsCatalog) {
		if clock != nil {
			c.now = clock
		}
	}
}

type catalogSnapshot struct {
	themes  map[string]struct{}
	expires time.Time
}

type fsCatalog struct {
	fsys         fs.FS
	defaultTheme string
	ttl          time.Duration
	now          func() time.Time

	mu       sync.Mutex
	snapshot *catalogSnapshot
}

// NewCatalog constructs a catalog over a templates root filesystem. The
// filesystem is expected to contain a "themes" directory with one
// subdirectory per theme.
func NewCatalog(fsys fs.FS, defaultTheme string, opts ...CatalogOption) Catalog {
	c := &fsCatalog{
		fsys:         fsys,
		defaultTheme: defaultTheme,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *fsCatalog) IsValid(name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	snapshot, err := c.scan()
	if err != nil {
		return false, err
	}
	_, ok := snapshot.themes[name]
	return ok, nil
}

func (c *fsCatalog) List() ([]string, error) {
	snapshot, err := c.scan()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(snapshot.themes)+1)
	for name := range snapshot.themes {
		names = append(names, name)
	}
	if _, ok := snapshot.themes[c.defaultTheme]; !ok && c.defaultTheme != "" {
		names = append(names, c.defaultTheme)
	}
	sort.Strings(names)
	return names, nil
}

// scan refreshes the snapshot when it is absent or expired. On an I/O
// failure the previous snapshot is left in place so the next call retries.
func (c *fsCatalog) scan() (*catalogSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.snapshot != nil && c.ttl > 0 && now.Before(c.snapshot.expires) {
		return c.snapshot, nil
	}

	themes := map[string]struct{}{}
	entries, err := fs.ReadDir(c.fsys, themesDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("templates: scan themes: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		marker := path.Join(themesDir, entry.Name(), layoutMarker)
		info, err := fs.Stat(c.fsys, marker)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("templates: stat %s: %w", marker, err)
		}
		if !info.IsDir() {
			themes[entry.Name()] = struct{}{}
		}
	}

	c.snapshot = &catalogSnapshot{
		themes:  themes,
		expires: now.Add(c.ttl),
	}
	return c.snapshot, nil
}
