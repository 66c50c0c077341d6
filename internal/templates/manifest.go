package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

type manifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsManifestLoader struct{}

func (fsManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("theme path required")
	}
	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

// ThemeSelector resolves theme manifests and variants through go-theme.
// Manifests are loaded lazily and registered once per theme name.
type ThemeSelector struct {
	registry       *gotheme.MemoryRegistry
	loader         manifestLoader
	basePath       string
	defaultTheme   string
	defaultVariant string

	mu        sync.Mutex
	manifests map[string]*gotheme.Manifest
}

// NewThemeSelector constructs a selector rooted at basePath, where each
// theme lives under basePath/themes/<name>.
func NewThemeSelector(basePath, defaultTheme, defaultVariant string) *ThemeSelector {
	return newThemeSelector(basePath, defaultTheme, defaultVariant, nil)
}

func newThemeSelector(basePath, defaultTheme, defaultVariant string, loader manifestLoader) *ThemeSelector {
	if loader == nil {
		loader = fsManifestLoader{}
	}
	return &ThemeSelector{
		registry:       gotheme.NewRegistry(),
		loader:         loader,
		basePath:       strings.TrimSpace(basePath),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
		manifests:      map[string]*gotheme.Manifest{},
	}
}

// Selection resolves the manifest-backed selection for a theme and variant.
// An empty variant falls back to the selector default.
func (s *ThemeSelector) Selection(themeName, variant string) (*gotheme.Selection, error) {
	themeName = strings.TrimSpace(themeName)
	if themeName == "" {
		return nil, nil
	}

	if _, err := s.ensureManifest(themeName); err != nil {
		return nil, err
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}

	resolvedVariant := strings.TrimSpace(variant)
	if resolvedVariant == "" {
		resolvedVariant = s.defaultVariant
	}

	selection, err := selector.Select(themeName, resolvedVariant)
	if err != nil {
		return nil, fmt.Errorf("select theme %s: %w", themeName, err)
	}
	return selection, nil
}

func (s *ThemeSelector) ensureManifest(themeName string) (*gotheme.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if manifest, ok := s.manifests[themeName]; ok {
		return manifest, nil
	}

	themePath := filepath.Join(s.basePath, themesDir, themeName)
	manifest, err := s.loader.Load(themePath)
	if err != nil {
		return nil, fmt.Errorf("load theme manifest from %s: %w", themePath, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" || !strings.EqualFold(normalized.Name, themeName) {
		normalized.Name = themeName
	}

	if err := s.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("register theme manifest: %w", err)
	}
	s.manifests[themeName] = &normalized
	return &normalized, nil
}
