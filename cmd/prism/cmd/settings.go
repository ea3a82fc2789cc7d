package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/iiroan/prism/internal/controller"
	"github.com/iiroan/prism/internal/store"
	"github.com/iiroan/prism/internal/theme"
	"github.com/iiroan/prism/internal/ui"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Edit theme and layout preferences interactively",
	RunE:  runSettings,
}

func settingsItems() []ui.MenuItem {
	return []ui.MenuItem{
		{ID: "color", TitleText: "Color", Details: "Pick the palette color every screen is drawn in"},
		{ID: "random", TitleText: "Random Color", Details: "Let prism pick a palette color for you"},
		{ID: "mode", TitleText: "Mode", Details: "Switch between the light and dark variant"},
		{ID: "direction", TitleText: "Direction", Details: "Left-to-right or right-to-left layout"},
		{ID: "gradient", TitleText: "Gradient", Details: "Gradient fills on headers and progress bars"},
		{ID: "decoration", TitleText: "Decoration", Details: "Ornaments around screen titles"},
		{ID: "background", TitleText: "Background", Details: "How much of the header the background covers"},
		{ID: "layout", TitleText: "Layout", Details: "Menu arrangement: sidebar, big sidebar or stacked"},
		{ID: "exit", TitleText: "Exit", Details: "Close the settings panel"},
	}
}

func runSettings(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx, sessionOptions{})
	if err != nil {
		return err
	}
	defer sess.Close()

	if !ui.IsInteractiveTerminal() {
		return fmt.Errorf("settings needs an interactive terminal, use `prism set` instead")
	}

	if err := ui.RunLoading("Loading theme", sess.progress); err != nil {
		logger.Warn("loading indicator failed", "error", err)
	}

	handlers := sess.ctrl.Handlers()
	lastChoice := ""
	for {
		sess.updates.apply()
		status := statusLines(sess.store.Snapshot(), sess.ctrl.Theme())
		choice, err := ui.RunMenu("SETTINGS", "Theme and layout preferences", settingsItems(),
			ui.WithBackNavigation("Exit"),
			ui.WithInitialSelectionID(lastChoice),
			ui.WithStatus(status...),
		)
		if err != nil {
			return err
		}

		switch choice {
		case ui.MenuActionBack, ui.MenuActionQuit, "exit", "":
			return nil
		}
		lastChoice = choice

		if err := runSettingsChoice(ctx, sess, handlers, choice); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			if errors.Is(err, controller.ErrClosed) {
				return err
			}
			fmt.Println(ui.Align(ui.ErrorBox.Render(err.Error())))
			if err := waitForEnter("Press enter to return to Settings"); err != nil {
				return err
			}
		}
	}
}

func runSettingsChoice(ctx context.Context, sess *session, h controller.Handlers, choice string) error {
	prefs := sess.store.Snapshot()

	switch choice {
	case "color":
		color := prefs.Color
		options := make([]huh.Option[string], 0, len(prefs.Palette))
		for _, entry := range sess.ctrl.Palette() {
			options = append(options, huh.NewOption(entry.Label, entry.Value))
		}
		err := runField(huh.NewSelect[string]().
			Title("Color").
			Description("Palette color for every screen").
			Options(options...).
			Value(&color))
		if err != nil {
			return err
		}
		return h.SetColor(ctx, color)
	case "random":
		entry, err := h.SetRandomColor(ctx)
		if err != nil {
			return err
		}
		fmt.Println(ui.Align(ui.SuccessStyle.Render("✔ Picked " + entry.Label)))
		if !sess.updates.waitForColor(ctx, entry.Value, 4*controller.RandomColorDelay) {
			logger.Debug("random color not applied yet", "color", entry.Value)
		}
		return nil
	case "mode":
		mode := string(prefs.Mode)
		err := runField(huh.NewSelect[string]().
			Title("Mode").
			Options(stringOptions([]string{string(theme.ModeLight), string(theme.ModeDark)})...).
			Value(&mode))
		if err != nil {
			return err
		}
		return h.SetMode(ctx, theme.Mode(mode))
	case "direction":
		dir := string(prefs.Direction)
		err := runField(huh.NewSelect[string]().
			Title("Direction").
			Options(stringOptions([]string{string(theme.LTR), string(theme.RTL)})...).
			Value(&dir))
		if err != nil {
			return err
		}
		return h.SetDirection(ctx, theme.Direction(dir))
	case "gradient":
		enabled := prefs.Gradient
		if err := runField(huh.NewConfirm().Title("Gradient fills").Value(&enabled)); err != nil {
			return err
		}
		return h.SetGradient(ctx, enabled)
	case "decoration":
		enabled := prefs.Decoration
		if err := runField(huh.NewConfirm().Title("Title decorations").Value(&enabled)); err != nil {
			return err
		}
		return h.SetDecoration(ctx, enabled)
	case "background":
		position := prefs.BgPosition
		err := runField(huh.NewSelect[string]().
			Title("Background").
			Options(stringOptions(store.BgPositions)...).
			Value(&position))
		if err != nil {
			return err
		}
		return h.SetBgPosition(ctx, position)
	case "layout":
		layout := prefs.Layout
		err := runField(huh.NewSelect[string]().
			Title("Layout").
			Options(stringOptions(store.Layouts)...).
			Value(&layout))
		if err != nil {
			return err
		}
		return h.SetLayout(ctx, layout)
	}
	return nil
}

func statusLines(p store.Preferences, r theme.Resolved) []ui.StatusLine {
	color := p.Color
	if !r.Known {
		color += " (custom)"
	}
	return []ui.StatusLine{
		{Label: "Color", Value: color},
		{Label: "Mode", Value: string(p.Mode)},
		{Label: "Direction", Value: string(p.Direction)},
		{Label: "Gradient", Value: onOff(p.Gradient)},
		{Label: "Decoration", Value: onOff(p.Decoration)},
		{Label: "Background", Value: p.BgPosition},
		{Label: "Layout", Value: p.Layout},
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func waitForEnter(prompt string) error {
	if !ui.IsInteractiveTerminal() {
		return nil
	}
	fmt.Println()
	fmt.Println(ui.Align(ui.Tagline.Render(prompt)))
	reader := bufio.NewReader(os.Stdin)
	_, err := reader.ReadString('\n')
	return err
}
