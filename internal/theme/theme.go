// Package theme holds the color themes and background images the client can
// switch between.
package theme

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

//go:embed data/themes.yaml
var catalogYAML []byte

// ErrUnknownTheme is returned for theme ids outside the catalog
var ErrUnknownTheme = errors.New("unknown theme")

// Role names a place a theme color is applied
type Role string

const (
	RolePrimary    Role = "primary"
	RoleSecondary  Role = "secondary"
	RoleText       Role = "text"
	RoleBackground Role = "background"
	RoleBorder     Role = "border"
	RoleShadow     Role = "shadow"
	RoleGradient   Role = "gradient"
)

// Style maps every role to a CSS color value
type Style map[Role]string

// Catalog is the ordered set of themes plus the background images
type Catalog struct {
	themes      []models.Theme
	byID        map[string]int
	defaultID   string
	backgrounds []string
}

type catalogFile struct {
	Themes      []models.Theme `yaml:"themes"`
	Backgrounds []string       `yaml:"backgrounds"`
}

// NewCatalog loads the embedded catalog with defaultID as the default theme
func NewCatalog(defaultID string) (*Catalog, error) {
	return LoadCatalog(catalogYAML, defaultID)
}

// LoadCatalog parses a YAML catalog. defaultID must name one of its themes.
func LoadCatalog(raw []byte, defaultID string) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse theme catalog: %w", err)
	}
	if len(file.Themes) == 0 {
		return nil, errors.New("theme catalog is empty")
	}
	if len(file.Backgrounds) == 0 {
		return nil, errors.New("theme catalog has no backgrounds")
	}

	catalog := &Catalog{
		themes:      file.Themes,
		byID:        make(map[string]int, len(file.Themes)),
		defaultID:   defaultID,
		backgrounds: file.Backgrounds,
	}
	for i, theme := range file.Themes {
		if _, duplicate := catalog.byID[theme.ID]; duplicate {
			return nil, fmt.Errorf("duplicate theme %q", theme.ID)
		}
		catalog.byID[theme.ID] = i
	}
	if _, ok := catalog.byID[defaultID]; !ok {
		return nil, fmt.Errorf("default theme %q: %w", defaultID, ErrUnknownTheme)
	}
	return catalog, nil
}

// Get returns the theme with id
func (c *Catalog) Get(id string) (models.Theme, error) {
	index, ok := c.byID[id]
	if !ok {
		return models.Theme{}, fmt.Errorf("%q: %w", id, ErrUnknownTheme)
	}
	return c.themes[index], nil
}

// List returns every theme in catalog order
func (c *Catalog) List() []models.Theme {
	themes := make([]models.Theme, len(c.themes))
	copy(themes, c.themes)
	return themes
}

// Default returns the configured default theme
func (c *Catalog) Default() models.Theme {
	return c.themes[c.byID[c.defaultID]]
}

// Backgrounds returns the background image paths
func (c *Catalog) Backgrounds() []string {
	backgrounds := make([]string, len(c.backgrounds))
	copy(backgrounds, c.backgrounds)
	return backgrounds
}

// Background returns the image at index, wrapping around the list
func (c *Catalog) Background(index int) string {
	return c.backgrounds[WrapIndex(index, len(c.backgrounds))]
}

// BackgroundCount returns how many background images there are
func (c *Catalog) BackgroundCount() int {
	return len(c.backgrounds)
}

// WrapIndex maps any index onto 0..n-1
func WrapIndex(index, n int) int {
	return ((index % n) + n) % n
}

// StyleOf resolves a theme into colors per role. Border, shadow and gradient
// are the primary and secondary colors with alpha suffixes.
func StyleOf(theme models.Theme) Style {
	return Style{
		RolePrimary:    theme.Colors.Primary,
		RoleSecondary:  theme.Colors.Secondary,
		RoleText:       theme.Colors.Text,
		RoleBackground: theme.Colors.Background,
		RoleBorder:     theme.Colors.Primary + "50",
		RoleShadow:     theme.Colors.Primary + "40",
		RoleGradient:   theme.Colors.Secondary + "90",
	}
}
