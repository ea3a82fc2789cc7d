package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/iiroan/prism/internal/markdown"
	"github.com/iiroan/prism/internal/ui"
)

const sampleDocument = `# Prism preview

## Every screen follows the active theme

Switch the **color**, the *mode* or the direction with ` + "`prism set`" + ` and
render this page again.

### Lists

- Headings map to title, subtitle, heading and caption styles
- Code uses the info color
  - nested items keep their indent

1. Pick a color
2. Pick a mode

#### Caption text

> Quotes are drawn with the accent border.

` + "```" + `
prism set color --random
` + "```" + `
`

var previewCmd = &cobra.Command{
	Use:   "preview [file.md]",
	Short: "Render a markdown document with the current theme",
	Long: `Render a markdown document with the current theme.
Reads the file given, stdin when the argument is -, or a built-in sample.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readPreviewSource(args)
		if err != nil {
			return err
		}

		sess, err := openSession(cmd.Context(), sessionOptions{})
		if err != nil {
			return err
		}
		defer sess.Close()

		renderer := markdown.NewRenderer(sess.ctrl.Theme(),
			markdown.WithWidth(ui.TerminalWidth()-2),
			markdown.WithNoColor(colorDisabled()),
		)
		if title := markdown.Title(src); title != "" {
			logger.Debug("rendering preview", "title", title)
		}
		fmt.Println(renderer.Render(src))
		return nil
	},
}

func readPreviewSource(args []string) ([]byte, error) {
	if len(args) == 0 {
		return []byte(sampleDocument), nil
	}
	if args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}
