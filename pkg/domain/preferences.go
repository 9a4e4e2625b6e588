package domain

import (
	"fmt"
	"maps"
)

// Preferences is the per-session, user-mutable state: which options are enabled,
// which categories are collapsed and the UI theme.
type Preferences struct {
	Selection map[string]bool `json:"selection"`
	Collapsed map[string]bool `json:"collapsed"`
	Theme     string          `json:"theme"`
}

// NewPreferences returns empty preferences. Maps are filled lazily by EnsureDefaults.
func NewPreferences() *Preferences {
	return &Preferences{Theme: ThemeLight}
}

// EnsureDefaults fills entries missing for catalog IDs from the catalog defaults.
// Existing entries are never touched, so the selection is initialized once and never reset.
// It reports whether anything was added.
func (p *Preferences) EnsureDefaults(c *Catalog) bool {
	changed := false
	if p.Selection == nil {
		p.Selection = make(map[string]bool)
	}
	if p.Collapsed == nil {
		p.Collapsed = make(map[string]bool)
	}
	if p.Theme == "" {
		p.Theme = ThemeLight
		changed = true
	}
	for _, cat := range c.Categories {
		if _, ok := p.Collapsed[cat.ID]; !ok {
			p.Collapsed[cat.ID] = cat.Collapsed
			changed = true
		}
		for _, opt := range cat.Options {
			if _, ok := p.Selection[opt.ID]; !ok {
				p.Selection[opt.ID] = opt.Default
				changed = true
			}
		}
	}
	return changed
}

// ToggleOption flips the selection of an option and returns its new value.
// Unknown IDs are rejected without touching any other entry.
func (p *Preferences) ToggleOption(c *Catalog, id string) (bool, error) {
	if _, ok := c.Option(id); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownOption, id)
	}
	p.EnsureDefaults(c)
	p.Selection[id] = !p.Selection[id]
	return p.Selection[id], nil
}

// ToggleCategory flips the collapsed display flag of a category and returns its new value.
func (p *Preferences) ToggleCategory(c *Catalog, id string) (bool, error) {
	if _, ok := c.Category(id); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	p.EnsureDefaults(c)
	p.Collapsed[id] = !p.Collapsed[id]
	return p.Collapsed[id], nil
}

// ToggleTheme switches between the light and dark theme and returns the new theme.
func (p *Preferences) ToggleTheme() string {
	if p.Theme == ThemeDark {
		p.Theme = ThemeLight
	} else {
		p.Theme = ThemeDark
	}
	return p.Theme
}

// Clone returns a deep copy.
func (p *Preferences) Clone() *Preferences {
	return &Preferences{
		Selection: maps.Clone(p.Selection),
		Collapsed: maps.Clone(p.Collapsed),
		Theme:     p.Theme,
	}
}
