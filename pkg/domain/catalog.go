package domain

import "fmt"

// Option is one toggleable tweak. Command is passed verbatim to the shell.
type Option struct {
	ID      string `json:"id" yaml:"id" mapstructure:"id"`
	Name    string `json:"name" yaml:"name" mapstructure:"name"`
	Icon    string `json:"icon,omitempty" yaml:"icon,omitempty" mapstructure:"icon"`
	Default bool   `json:"default" yaml:"default" mapstructure:"default"`
	Command string `json:"command" yaml:"command" mapstructure:"command"`
}

// Category groups options for display. Collapsed is the initial display flag.
type Category struct {
	ID        string   `json:"id" yaml:"id" mapstructure:"id"`
	Name      string   `json:"name" yaml:"name" mapstructure:"name"`
	Icon      string   `json:"icon,omitempty" yaml:"icon,omitempty" mapstructure:"icon"`
	Collapsed bool     `json:"collapsed" yaml:"collapsed" mapstructure:"collapsed"`
	Options   []Option `json:"options" yaml:"options" mapstructure:"options"`
}

// Catalog is the ordered, read-only set of categories.
// Treat a loaded catalog as immutable; reloads produce a new value.
type Catalog struct {
	Categories []Category `json:"categories" yaml:"categories" mapstructure:"categories"`
}

// Validate checks that the catalog is non-empty and that category and option IDs are unique.
// Option IDs must be unique across the whole catalog, since the selection is keyed globally.
func (c *Catalog) Validate() error {
	if c == nil || len(c.Categories) == 0 {
		return ErrEmptyCatalog
	}
	categories := make(map[string]bool, len(c.Categories))
	options := make(map[string]string)
	for _, cat := range c.Categories {
		if cat.ID == "" {
			return fmt.Errorf("category %q has an empty id", cat.Name)
		}
		if categories[cat.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, cat.ID)
		}
		categories[cat.ID] = true
		for _, opt := range cat.Options {
			if opt.ID == "" {
				return fmt.Errorf("option %q in category %s has an empty id", opt.Name, cat.ID)
			}
			if prev, ok := options[opt.ID]; ok {
				return fmt.Errorf("%w: %s (categories %s and %s)", ErrDuplicateOption, opt.ID, prev, cat.ID)
			}
			options[opt.ID] = cat.ID
		}
	}
	return nil
}

// Option looks up an option by ID.
func (c *Catalog) Option(id string) (Option, bool) {
	for _, cat := range c.Categories {
		for _, opt := range cat.Options {
			if opt.ID == id {
				return opt, true
			}
		}
	}
	return Option{}, false
}

// Category looks up a category by ID.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Options returns every option in traversal order (category order, then option order).
func (c *Catalog) Options() []Option {
	var all []Option
	for _, cat := range c.Categories {
		all = append(all, cat.Options...)
	}
	return all
}
