package cmd

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"

	"github.com/iiroan/prism/internal/ui"
)

// newHuhBackOnQKeyMap keeps default Huh bindings and adds q as a quit/back key.
func newHuhBackOnQKeyMap() *huh.KeyMap {
	keyMap := huh.NewDefaultKeyMap()
	keyMap.Quit = key.NewBinding(
		key.WithKeys("ctrl+c", "q", "esc"),
		key.WithHelp("q", "back"),
	)
	return keyMap
}

// runField shows a single-field form in the active theme.
func runField(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).
		WithTheme(ui.HuhTheme()).
		WithKeyMap(newHuhBackOnQKeyMap()).
		Run()
}

func stringOptions(values []string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(values))
	for _, v := range values {
		options = append(options, huh.NewOption(v, v))
	}
	return options
}
