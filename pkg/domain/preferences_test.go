package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/debloat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferences_EnsureDefaults(t *testing.T) {
	cat := &domain.Catalog{Categories: []domain.Category{
		{ID: "c", Collapsed: true, Options: []domain.Option{
			{ID: "a", Default: true},
			{ID: "b", Default: false},
		}},
	}}
	p := domain.NewPreferences()

	assert.True(t, p.EnsureDefaults(cat))
	assert.Equal(t, map[string]bool{"a": true, "b": false}, p.Selection)
	assert.Equal(t, map[string]bool{"c": true}, p.Collapsed)

	// Second call must not reset user changes.
	p.Selection["a"] = false
	assert.False(t, p.EnsureDefaults(cat))
	assert.False(t, p.Selection["a"])
}

func TestPreferences_ToggleOptionInvolution(t *testing.T) {
	cat := testCatalog()
	p := domain.NewPreferences()
	p.EnsureDefaults(cat)
	before := p.Clone()

	v, err := p.ToggleOption(cat, "other2")
	require.NoError(t, err)
	assert.True(t, v)

	v, err = p.ToggleOption(cat, "other2")
	require.NoError(t, err)
	assert.False(t, v)
	assert.Equal(t, before.Selection, p.Selection)
}

func TestPreferences_ToggleUnknown(t *testing.T) {
	cat := testCatalog()
	p := domain.NewPreferences()
	p.EnsureDefaults(cat)
	before := p.Clone()

	_, err := p.ToggleOption(cat, "ghost")
	assert.True(t, errors.Is(err, domain.ErrUnknownOption))

	_, err = p.ToggleCategory(cat, "ghost")
	assert.True(t, errors.Is(err, domain.ErrUnknownCategory))

	assert.Equal(t, before, p)
}

func TestPreferences_ToggleCategoryAndTheme(t *testing.T) {
	cat := testCatalog()
	p := domain.NewPreferences()

	collapsed, err := p.ToggleCategory(cat, "second")
	require.NoError(t, err)
	assert.True(t, collapsed)

	assert.Equal(t, domain.ThemeDark, p.ToggleTheme())
	assert.Equal(t, domain.ThemeLight, p.ToggleTheme())
}
