package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iiroan/prism/internal/theme"
	"github.com/iiroan/prism/internal/ui"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List palette colors with swatches",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context(), sessionOptions{})
		if err != nil {
			return err
		}
		defer sess.Close()

		current := sess.ctrl.Theme()
		fmt.Println(ui.Align(ui.Header("palette")))
		fmt.Println()
		for _, line := range paletteLines(sess.ctrl.Palette(), current) {
			fmt.Println(ui.Align(line))
		}
		return nil
	},
}

func paletteLines(palette []theme.PaletteEntry, current theme.Resolved) []string {
	lines := make([]string, 0, len(palette))
	for _, entry := range palette {
		marker := "  "
		if entry.Value == current.Color {
			marker = ui.PrimaryStyle().Render("● ")
		}
		r := theme.Resolve(entry.Value, current.Mode, current.Direction)
		swatch := ui.Swatch(r.Colors)
		if !r.Known {
			swatch = ui.MutedStyle.Render("(no swatch, uses " + theme.DefaultColor + ")")
		}
		lines = append(lines, marker+ui.KeyValue(entry.Label, swatch))
	}
	return lines
}
