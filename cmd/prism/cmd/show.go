package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iiroan/prism/internal/store"
	"github.com/iiroan/prism/internal/theme"
	"github.com/iiroan/prism/internal/ui"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored preferences and the resolved theme",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print as JSON")
}

type showOutput struct {
	Preferences store.Preferences `json:"preferences"`
	Theme       themeOutput       `json:"theme"`
}

type themeOutput struct {
	Color     string            `json:"color"`
	Known     bool              `json:"known"`
	Mode      theme.Mode        `json:"mode"`
	Direction theme.Direction   `json:"direction"`
	Colors    map[string]string `json:"colors"`
}

func runShow(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context(), sessionOptions{})
	if err != nil {
		return err
	}
	defer sess.Close()

	prefs := sess.store.Snapshot()
	resolved := sess.ctrl.Theme()

	if showJSON {
		data, err := json.MarshalIndent(showOutput{Preferences: prefs, Theme: newThemeOutput(resolved)}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(ui.Align(ui.Header("preferences")))
	fmt.Println()
	for _, line := range statusLines(prefs, resolved) {
		fmt.Println(ui.Align(ui.KeyValue(line.Label, line.Value)))
	}
	fmt.Println(ui.Align(ui.KeyValue("Store", cfg.Store.Backend+" "+cfg.Store.Path)))
	fmt.Println()
	fmt.Println(ui.Align(ui.Swatch(resolved.Colors)))
	return nil
}

func newThemeOutput(r theme.Resolved) themeOutput {
	c := r.Colors
	return themeOutput{
		Color:     r.Color,
		Known:     r.Known,
		Mode:      r.Mode,
		Direction: r.Direction,
		Colors: map[string]string{
			"primary":    string(c.Primary),
			"secondary":  string(c.Secondary),
			"accent":     string(c.Accent),
			"info":       string(c.Info),
			"success":    string(c.Success),
			"warning":    string(c.Warning),
			"error":      string(c.Error),
			"muted":      string(c.Muted),
			"background": string(c.Background),
			"foreground": string(c.Foreground),
			"border":     string(c.Border),
			"highlight":  string(c.Highlight),
		},
	}
}
