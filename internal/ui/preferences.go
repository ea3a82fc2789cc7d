package ui

// Preferences controls runtime UI settings.
type Preferences struct {
	Dense      bool
	NoColor    bool
	Gradient   bool
	Decoration bool
	BgPosition string
	Layout     string
}

// CurrentPreferences holds the active UI preferences.
var CurrentPreferences = Preferences{
	Gradient:   true,
	Decoration: true,
	BgPosition: "half",
	Layout:     "big-sidebar",
}

// ApplyPreferences updates UI preferences and re-applies the active theme so
// color and decoration changes take effect.
func ApplyPreferences(p Preferences) {
	CurrentPreferences = p
	ApplyTheme(activeTheme, p.NoColor)
}
