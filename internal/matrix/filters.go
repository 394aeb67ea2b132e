package matrix

// Filters are the presentation filters chosen by the user.
type Filters struct {
	Locales               []string `json:"locales" yaml:"locales"`
	HideFullyLocalized    bool     `json:"hide_fully_localized" yaml:"hide_fully_localized"`
	HideFullyNonLocalized bool     `json:"hide_fully_non_localized" yaml:"hide_fully_non_localized"`
}

// Active reports whether any hiding filter is on.
func (f Filters) Active() bool {
	return f.HideFullyLocalized || f.HideFullyNonLocalized
}

// LocaleMode is a named preset of locales, e.g. "EMEA: en-GB, de-DE, fr-FR".
type LocaleMode struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Locales []string `json:"locales" yaml:"locales"`
}
