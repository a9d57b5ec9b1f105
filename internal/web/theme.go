package web

import "strings"

// Theme is a page skin. Pages read it at render time; nothing else depends on it.
type Theme struct {
	Name       string
	Label      string
	Stylesheet string
	Accent     string
	HeroClass  string
	Headline   string
}

var themes = map[string]Theme{
	"classic": {
		Name:       "classic",
		Label:      "Klassisk",
		Stylesheet: "/static/css/classic.css",
		Accent:     "#0b5fa5",
		HeroClass:  "hero hero--photo",
		Headline:   "Trygg i vann fra første dag",
	},
	"nordic": {
		Name:       "nordic",
		Label:      "Nordisk",
		Stylesheet: "/static/css/nordic.css",
		Accent:     "#2f5d62",
		HeroClass:  "hero hero--calm",
		Headline:   "Svømmeglede i rolige omgivelser",
	},
	"playful": {
		Name:       "playful",
		Label:      "Leken",
		Stylesheet: "/static/css/playful.css",
		Accent:     "#ff7a45",
		HeroClass:  "hero hero--waves",
		Headline:   "Plask, lek og svømmetak!",
	},
}

// DefaultTheme is used when a name is unknown.
const DefaultTheme = "classic"

// ThemeByName returns the named theme, falling back to the default.
func ThemeByName(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes[DefaultTheme]
}

// Themes returns the named themes in the given order, skipping unknown names.
func Themes(names []string) []Theme {
	out := make([]Theme, 0, len(names))
	for _, name := range names {
		if t, ok := themes[strings.ToLower(name)]; ok {
			out = append(out, t)
		}
	}
	return out
}
