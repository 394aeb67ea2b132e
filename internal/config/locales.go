package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dbsmedya/locmatrix/internal/matrix"
)

// SplitCommaSeparated splits "en-US, pt-BR" style values, trimming blanks
// and dropping empty items. Each element of values may itself be a list.
func SplitCommaSeparated(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseLocaleMode parses a mode value in the form "<Mode display name>: en-US, fr-FR".
func ParseLocaleMode(id, value string) (matrix.LocaleMode, error) {
	idx := strings.Index(value, ":")
	if idx < 0 {
		return matrix.LocaleMode{}, fmt.Errorf(
			"unable to parse locale mode %s: %q: it must be in the following format: \"<Mode display name>: en-US, fr-FR\"",
			id, value)
	}

	return matrix.LocaleMode{
		ID:      id,
		Name:    strings.TrimSpace(value[:idx]),
		Locales: SplitCommaSeparated(value[idx+1:]),
	}, nil
}

// LocaleModes returns the configured locale modes sorted by id.
func (c *Config) LocaleModes() ([]matrix.LocaleMode, error) {
	ids := make([]string, 0, len(c.Locales.Modes))
	for id := range c.Locales.Modes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	modes := make([]matrix.LocaleMode, 0, len(ids))
	for _, id := range ids {
		mode, err := ParseLocaleMode(id, c.Locales.Modes[id])
		if err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}
	return modes, nil
}

// LocaleMode returns one locale mode by id.
func (c *Config) LocaleMode(id string) (matrix.LocaleMode, error) {
	value, ok := c.Locales.Modes[id]
	if !ok {
		return matrix.LocaleMode{}, fmt.Errorf("locale mode %q not found in configuration", id)
	}
	return ParseLocaleMode(id, value)
}

// EffectiveLocales returns the locale columns of a crawl: the configured
// order, or the default locale alone.
func (c *Config) EffectiveLocales() []string {
	if len(c.Locales.Order) > 0 {
		return append([]string(nil), c.Locales.Order...)
	}
	if c.Locales.Default == "" {
		return nil
	}
	return []string{c.Locales.Default}
}

// Filters builds the presentation filters from configuration.
func (c *Config) Filters() matrix.Filters {
	return matrix.Filters{
		Locales:               c.EffectiveLocales(),
		HideFullyLocalized:    c.Crawl.FilterFullyLocalized,
		HideFullyNonLocalized: c.Crawl.FilterFullyNonLocalized,
	}
}
